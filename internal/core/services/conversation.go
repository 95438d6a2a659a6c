package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// Ensure ConversationController implements the interface.
var _ driving.ConversationController = (*ConversationController)(nil)

// maxCitationLines bounds the rendered source list.
const maxCitationLines = 5

// SelectionSource supplies the scope for a query.
type SelectionSource interface {
	Selection() domain.ScopeSelection
}

// ConversationController owns the transcript and at most one in-flight
// agent query. A Send while busy is dropped, not queued.
type ConversationController struct {
	agent  driven.AgentBackend
	tokens TokenSource
	scope  SelectionSource
	runs   driven.RunLog

	mu         sync.Mutex
	transcript []domain.Turn
	state      domain.RequestState
	opts       domain.ChatOptions
	listeners  []func()
}

// NewConversationController creates a controller whose transcript holds
// the greeting. runs may be nil.
func NewConversationController(
	agent driven.AgentBackend,
	tokens TokenSource,
	scope SelectionSource,
	runs driven.RunLog,
	opts domain.ChatOptions,
) *ConversationController {
	opts.TopK = domain.ClampTopK(opts.TopK)
	return &ConversationController{
		agent:      agent,
		tokens:     tokens,
		scope:      scope,
		runs:       runs,
		opts:       opts,
		transcript: []domain.Turn{{Role: domain.RoleAssistant, Content: domain.GreetingText}},
	}
}

// Send submits text and blocks until the assistant turn is appended.
// It returns false, touching nothing, when the trimmed text is empty or
// a request is already in flight. Failures never escape: they become
// the last error and an assistant turn.
func (c *ConversationController) Send(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		logger.Debug("Send dropped: request in flight")
		return false
	}
	c.state = domain.RequestState{Busy: true}
	c.transcript = append(c.transcript, domain.Turn{Role: domain.RoleUser, Content: text})
	opts := c.opts
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		c.state.Busy = false
		c.mu.Unlock()
		c.notify()
	}()

	token := ""
	if c.tokens != nil {
		token = c.tokens.Current()
	}
	if token == "" {
		c.appendAssistant(domain.Turn{Role: domain.RoleAssistant, Content: domain.NotLoggedInText})
		return true
	}

	var sel domain.ScopeSelection
	if c.scope != nil {
		sel = c.scope.Selection()
	}

	logger.Section("Agent Query")
	logger.Debug("Scope: %s, top_k=%d, trace=%t", sel, opts.TopK, opts.ShowTrace)

	answer, err := c.query(ctx, token, domain.NewAgentQuery(text, sel, opts))
	if err != nil {
		msg := err.Error()
		logger.Warn("Agent query failed: %s", msg)
		c.mu.Lock()
		c.state.LastError = msg
		c.transcript = append(c.transcript, domain.Turn{
			Role:    domain.RoleAssistant,
			Content: domain.RequestFailedPrefix + msg,
		})
		c.mu.Unlock()
		return true
	}

	logger.Info("Agent run %s answered with %d citations", answer.RunID, len(answer.Citations))

	turn := AnswerTurn(answer, opts.ShowTrace)
	c.appendAssistant(turn)
	c.record(ctx, text, sel, answer)
	return true
}

// Reset replaces the transcript with the fresh-chat notice.
// The busy flag and last error are untouched.
func (c *ConversationController) Reset() {
	c.mu.Lock()
	c.transcript = []domain.Turn{{Role: domain.RoleAssistant, Content: domain.NewChatText}}
	c.mu.Unlock()
	c.notify()
}

// Transcript returns a copy of the transcript.
func (c *ConversationController) Transcript() []domain.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Turn(nil), c.transcript...)
}

// State returns the busy flag and the last error message.
func (c *ConversationController) State() domain.RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Options returns the per-query options.
func (c *ConversationController) Options() domain.ChatOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// SetOptions replaces the per-query options, clamping TopK.
func (c *ConversationController) SetOptions(opts domain.ChatOptions) {
	opts.TopK = domain.ClampTopK(opts.TopK)
	c.mu.Lock()
	c.opts = opts
	c.mu.Unlock()
	c.notify()
}

// OnChange registers fn to be called after every transcript or state change.
func (c *ConversationController) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *ConversationController) query(ctx context.Context, token string, q domain.AgentQuery) (*domain.AgentAnswer, error) {
	if c.agent == nil {
		return nil, domain.ErrNotImplemented
	}
	answer, err := c.agent.Query(ctx, token, q)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return &domain.AgentAnswer{}, nil
	}
	return answer, nil
}

func (c *ConversationController) appendAssistant(turn domain.Turn) {
	c.mu.Lock()
	c.transcript = append(c.transcript, turn)
	c.mu.Unlock()
}

// record appends a successful query to the run log. Best effort.
func (c *ConversationController) record(ctx context.Context, message string, sel domain.ScopeSelection, a *domain.AgentAnswer) {
	if c.runs == nil || a.RunID == "" {
		return
	}
	rec := domain.RunRecord{
		RunID:     a.RunID,
		Message:   message,
		Answer:    a.Answer,
		Scope:     sel,
		Citations: len(a.Citations),
		CreatedAt: time.Now().Unix(),
	}
	if err := c.runs.Append(ctx, rec); err != nil {
		logger.Warn("Failed to record run %s: %v", a.RunID, err)
	}
}

func (c *ConversationController) notify() {
	c.mu.Lock()
	listeners := append([]func(){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// AnswerTurn builds the assistant turn for an agent answer. Steps are
// kept only when trace display is on and the backend returned them.
func AnswerTurn(a *domain.AgentAnswer, showTrace bool) domain.Turn {
	content := a.Answer
	if len(a.Citations) > 0 {
		content += "\n\nSources:\n" + FormatCitations(a.Citations)
	}
	turn := domain.Turn{
		Role:      domain.RoleAssistant,
		Content:   content,
		Citations: a.Citations,
		RunID:     a.RunID,
	}
	if showTrace && len(a.Steps) > 0 {
		turn.Steps = a.Steps
	}
	return turn
}

// FormatCitations renders at most five citations, one per line:
//
//	- [1] doc=d1 chunk=c1 score=0.87
//
// Missing identifiers render as "?" and a missing score is omitted.
func FormatCitations(citations []domain.Citation) string {
	if len(citations) > maxCitationLines {
		citations = citations[:maxCitationLines]
	}
	lines := make([]string, 0, len(citations))
	for i, cit := range citations {
		doc := cit.Document()
		if doc == "" {
			doc = "?"
		}
		chunk := cit.ChunkID
		if chunk == "" {
			chunk = "?"
		}
		line := fmt.Sprintf("- [%d] doc=%s chunk=%s", i+1, doc, chunk)
		if cit.Score != nil {
			line += fmt.Sprintf(" score=%.2f", *cit.Score)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
