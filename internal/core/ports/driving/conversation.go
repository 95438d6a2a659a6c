package driving

import (
	"context"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// ConversationController owns the chat transcript and the single
// in-flight agent query.
type ConversationController interface {
	// Send submits text as a user turn and waits for the assistant turn.
	// Returns false without doing anything when text is blank or a
	// request is already in flight.
	Send(ctx context.Context, text string) bool

	// Reset replaces the transcript with a fresh-chat notice.
	Reset()

	// Transcript returns a copy of the transcript.
	Transcript() []domain.Turn

	// State returns the busy flag and the last error message.
	State() domain.RequestState

	// Options returns the per-query options.
	Options() domain.ChatOptions

	// SetOptions replaces the per-query options. TopK is clamped.
	SetOptions(opts domain.ChatOptions)

	// OnChange registers fn to be called after every transcript or state change.
	OnChange(fn func())
}
