package tui

import (
	"context"
	"sync"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
)

// MockConversation is a mock implementation of driving.ConversationController.
type MockConversation struct {
	mu         sync.Mutex
	transcript []domain.Turn
	state      domain.RequestState
	opts       domain.ChatOptions
	sent       []string
	resets     int
	listeners  []func()
}

var _ driving.ConversationController = (*MockConversation)(nil)

func newMockConversation() *MockConversation {
	return &MockConversation{
		transcript: []domain.Turn{{Role: domain.RoleAssistant, Content: domain.GreetingText}},
		opts:       domain.ChatOptions{TopK: domain.DefaultTopK},
	}
}

func (m *MockConversation) Send(_ context.Context, text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Busy {
		return false
	}
	m.sent = append(m.sent, text)
	m.transcript = append(m.transcript,
		domain.Turn{Role: domain.RoleUser, Content: text},
		domain.Turn{Role: domain.RoleAssistant, Content: "answer to " + text},
	)
	return true
}

func (m *MockConversation) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	m.transcript = []domain.Turn{{Role: domain.RoleAssistant, Content: domain.NewChatText}}
}

func (m *MockConversation) Transcript() []domain.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Turn(nil), m.transcript...)
}

func (m *MockConversation) State() domain.RequestState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MockConversation) Options() domain.ChatOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

func (m *MockConversation) SetOptions(opts domain.ChatOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	opts.TopK = domain.ClampTopK(opts.TopK)
	m.opts = opts
}

func (m *MockConversation) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *MockConversation) fire() {
	for _, fn := range m.listeners {
		fn()
	}
}

// MockScope is a mock implementation of driving.ScopeController.
type MockScope struct {
	sel          domain.ScopeSelection
	projects     []domain.Project
	kbs          []domain.KnowledgeBase
	docs         []domain.Document
	profile      *domain.DocumentProfile
	refreshErr   error
	refreshCalls int
	calls        []string
	listeners    []func(domain.ScopeEvent)
}

var _ driving.ScopeController = (*MockScope)(nil)

func (m *MockScope) SetProject(_ context.Context, projectID string) {
	m.calls = append(m.calls, "project:"+projectID)
	m.sel = domain.ScopeSelection{ProjectID: projectID}
}

func (m *MockScope) SetKnowledgeBase(_ context.Context, kbID string) {
	m.calls = append(m.calls, "kb:"+kbID)
	m.sel.KBID = kbID
	m.sel.DocID = ""
}

func (m *MockScope) SetDocument(_ context.Context, docID string) {
	m.calls = append(m.calls, "doc:"+docID)
	m.sel.DocID = docID
}

func (m *MockScope) RefreshProjects(_ context.Context) error {
	m.refreshCalls++
	return m.refreshErr
}

func (m *MockScope) RefreshKnowledgeBases(_ context.Context, _ string) error {
	m.refreshCalls++
	return m.refreshErr
}

func (m *MockScope) RefreshDocuments(_ context.Context, _ string) error {
	m.refreshCalls++
	return m.refreshErr
}

func (m *MockScope) Selection() domain.ScopeSelection { return m.sel }
func (m *MockScope) Projects() []domain.Project { return m.projects }
func (m *MockScope) KnowledgeBases() []domain.KnowledgeBase { return m.kbs }
func (m *MockScope) Documents() []domain.Document { return m.docs }
func (m *MockScope) Profile() *domain.DocumentProfile { return m.profile }
func (m *MockScope) OnChange(fn func(domain.ScopeEvent)) { m.listeners = append(m.listeners, fn) }
func (m *MockScope) Wait() {}

// MockCredentials is a mock implementation of driving.CredentialService.
type MockCredentials struct {
	token     string
	claims    *domain.TokenClaims
	listeners []func(string)
}

var _ driving.CredentialService = (*MockCredentials)(nil)

func (m *MockCredentials) Login(_ context.Context, _, _ string) error { return nil }

func (m *MockCredentials) Register(_ context.Context, _, _, _ string) error { return nil }

func (m *MockCredentials) Clear(_ context.Context) error {
	m.token = ""
	return nil
}

func (m *MockCredentials) Current() string { return m.token }
func (m *MockCredentials) IsAuthenticated() bool { return m.token != "" }

func (m *MockCredentials) Claims() (*domain.TokenClaims, error) {
	if m.token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if m.claims == nil {
		return nil, domain.ErrOpaqueToken
	}
	return m.claims, nil
}

func (m *MockCredentials) Reload(_ context.Context) error { return nil }

func (m *MockCredentials) OnChange(fn func(string)) {
	m.listeners = append(m.listeners, fn)
}
