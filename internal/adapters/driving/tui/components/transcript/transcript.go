// Package transcript renders the chat transcript in a scrollable viewport.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/tui/styles"
	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// DefaultStyle is the glamour style used for assistant turns.
const DefaultStyle = "dark"

// View shows the transcript. Assistant turns are rendered as markdown.
type View struct {
	viewport viewport.Model
	renderer *glamour.TermRenderer
	styles   *styles.Styles
	style    string
	turns    []domain.Turn
	width    int
}

// New creates a transcript view. style names a glamour standard style;
// "" selects DefaultStyle.
func New(s *styles.Styles, style string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if style == "" {
		style = DefaultStyle
	}

	v := &View{
		viewport: viewport.New(80, 20),
		styles:   s,
		style:    style,
		width:    80,
	}
	v.renderer = v.newRenderer()
	return v
}

func (v *View) newRenderer() *glamour.TermRenderer {
	wrap := v.width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(v.style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		logger.Debug("Markdown renderer unavailable: %v", err)
		return nil
	}
	return r
}

// Init initialises the transcript view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update forwards scrolling messages to the viewport.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the visible part of the transcript.
func (v *View) View() string {
	return v.viewport.View()
}

// SetTurns replaces the transcript and scrolls to the newest turn.
func (v *View) SetTurns(turns []domain.Turn) {
	v.turns = turns
	v.viewport.SetContent(v.Render())
	v.viewport.GotoBottom()
}

// Turns returns the displayed transcript.
func (v *View) Turns() []domain.Turn {
	return v.turns
}

// SetDimensions resizes the viewport and re-renders.
func (v *View) SetDimensions(width, height int) {
	if width != v.width {
		v.width = width
		v.renderer = v.newRenderer()
	}
	v.viewport.Width = width
	v.viewport.Height = height
	v.viewport.SetContent(v.Render())
	v.viewport.GotoBottom()
}

// ScrollUp pages the viewport up.
func (v *View) ScrollUp() {
	v.viewport.HalfPageUp()
}

// ScrollDown pages the viewport down.
func (v *View) ScrollDown() {
	v.viewport.HalfPageDown()
}

// AtBottom reports whether the newest turn is visible.
func (v *View) AtBottom() bool {
	return v.viewport.AtBottom()
}

// Render renders the whole transcript.
func (v *View) Render() string {
	blocks := make([]string, 0, len(v.turns))
	for _, turn := range v.turns {
		blocks = append(blocks, v.renderTurn(turn))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *View) renderTurn(turn domain.Turn) string {
	if turn.Role == domain.RoleUser {
		return v.styles.UserTurn.Render("You") + "\n" + turn.Content
	}

	var b strings.Builder
	b.WriteString(v.styles.AssistantTurn.Render("DocFoundry"))
	b.WriteString("\n")
	b.WriteString(v.markdown(turn.Content))

	if len(turn.Steps) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Trace:"))
		for _, step := range turn.Steps {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d] %s", step.Index, step.Kind)))
		}
	}
	return b.String()
}

func (v *View) markdown(content string) string {
	if v.renderer == nil {
		return content
	}
	out, err := v.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
