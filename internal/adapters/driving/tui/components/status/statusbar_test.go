package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Nil(t, bar.Init())
}

func TestBar_View_States(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		want    string
	}{
		{"ready", StateReady, "", "Ready"},
		{"ready with message", StateReady, "New chat", "New chat"},
		{"thinking", StateThinking, "", "Thinking..."},
		{"error", StateError, "500 Internal Server Error: boom", "Error: 500 Internal Server Error: boom"},
		{"error without message", StateError, "", "Error"},
		{"signed out", StateSignedOut, "", "Not logged in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_View_ScopeAndOptions(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)
	bar.SetScope("project=p1 kb=* doc=*")
	bar.SetIdentity("ada@example.com")
	bar.SetOptions(8, true)

	view := bar.View()
	assert.Contains(t, view, "project=p1 kb=* doc=*")
	assert.Contains(t, view, "ada@example.com")
	assert.Contains(t, view, "top_k=8 trace")
}

func TestBar_View_Hints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(250)

	assert.Contains(t, bar.View(), "send")

	bar.SetListHints(true)
	assert.Contains(t, bar.View(), "clear level")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
}
