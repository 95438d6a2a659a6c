package mcp

import (
	"context"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// mockConversation is a mock implementation of driving.ConversationController.
// Send appends the user turn followed by reply.
type mockConversation struct {
	reply     domain.Turn
	lastError string
	busy      bool

	transcript []domain.Turn
	opts       domain.ChatOptions
	sent       []string
	sentScope  []domain.ScopeSelection
	scope      *mockScope
}

func (m *mockConversation) Send(_ context.Context, text string) bool {
	if m.busy {
		return false
	}
	m.sent = append(m.sent, text)
	if m.scope != nil {
		m.sentScope = append(m.sentScope, m.scope.sel)
	}
	m.transcript = append(m.transcript, domain.Turn{Role: domain.RoleUser, Content: text}, m.reply)
	return true
}

func (m *mockConversation) Reset() { m.transcript = nil }

func (m *mockConversation) Transcript() []domain.Turn { return m.transcript }

func (m *mockConversation) State() domain.RequestState {
	return domain.RequestState{Busy: m.busy, LastError: m.lastError}
}

func (m *mockConversation) Options() domain.ChatOptions { return m.opts }

func (m *mockConversation) SetOptions(opts domain.ChatOptions) { m.opts = opts }

func (m *mockConversation) OnChange(_ func()) {}

// mockScope is a mock implementation of driving.ScopeController.
type mockScope struct {
	sel      domain.ScopeSelection
	projects []domain.Project
	kbs      []domain.KnowledgeBase
	docs     []domain.Document
	profile  *domain.DocumentProfile
	err      error

	refreshedProject string
	refreshedKB      string
}

func (m *mockScope) SetProject(_ context.Context, projectID string) {
	m.sel = domain.ScopeSelection{ProjectID: projectID}
}

func (m *mockScope) SetKnowledgeBase(_ context.Context, kbID string) {
	m.sel.KBID = kbID
	m.sel.DocID = ""
}

func (m *mockScope) SetDocument(_ context.Context, docID string) { m.sel.DocID = docID }

func (m *mockScope) RefreshProjects(_ context.Context) error { return m.err }

func (m *mockScope) RefreshKnowledgeBases(_ context.Context, projectID string) error {
	m.refreshedProject = projectID
	return m.err
}

func (m *mockScope) RefreshDocuments(_ context.Context, kbID string) error {
	m.refreshedKB = kbID
	return m.err
}

func (m *mockScope) Selection() domain.ScopeSelection { return m.sel }

func (m *mockScope) Projects() []domain.Project { return m.projects }

func (m *mockScope) KnowledgeBases() []domain.KnowledgeBase { return m.kbs }

func (m *mockScope) Documents() []domain.Document { return m.docs }

func (m *mockScope) Profile() *domain.DocumentProfile { return m.profile }

func (m *mockScope) OnChange(_ func(domain.ScopeEvent)) {}

func (m *mockScope) Wait() {}

// mockProfiles is a mock implementation of driving.ProfileResolver.
type mockProfiles struct {
	profiles map[string]*domain.DocumentProfile
}

func (m *mockProfiles) Fetch(_ context.Context, docID string) *domain.DocumentProfile {
	return m.profiles[docID]
}

func (m *mockProfiles) Invalidate(docID string) { delete(m.profiles, docID) }

// mockRuns is a mock implementation of driving.RunService.
type mockRuns struct {
	records []domain.RunRecord
	err     error
}

func (m *mockRuns) Get(_ context.Context, _ string) (*domain.AgentRun, error) {
	return nil, m.err
}

func (m *mockRuns) Retry(_ context.Context, _, _ string) (*domain.AgentAnswer, error) {
	return nil, m.err
}

func (m *mockRuns) History(_ context.Context, _ int) ([]domain.RunRecord, error) {
	return m.records, m.err
}
