package cli

import (
	"context"
	"io"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// MockCredentialService implements driving.CredentialService for tests.
type MockCredentialService struct {
	token     string
	claims    *domain.TokenClaims
	err       error
	lastEmail string
	lastName  string
	cleared   bool
}

func (m *MockCredentialService) Login(_ context.Context, email, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.lastEmail = email
	m.token = "tok"
	return nil
}

func (m *MockCredentialService) Register(_ context.Context, email, _, name string) error {
	if m.err != nil {
		return m.err
	}
	m.lastEmail = email
	m.lastName = name
	m.token = "tok"
	return nil
}

func (m *MockCredentialService) Clear(_ context.Context) error {
	m.cleared = true
	m.token = ""
	return m.err
}

func (m *MockCredentialService) Current() string { return m.token }

func (m *MockCredentialService) IsAuthenticated() bool { return m.token != "" }

func (m *MockCredentialService) Claims() (*domain.TokenClaims, error) {
	if m.token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if m.claims == nil {
		return nil, domain.ErrOpaqueToken
	}
	return m.claims, nil
}

func (m *MockCredentialService) Reload(_ context.Context) error { return nil }

func (m *MockCredentialService) OnChange(_ func(string)) {}

// MockScopeController implements driving.ScopeController for tests.
type MockScopeController struct {
	sel      domain.ScopeSelection
	projects []domain.Project
	kbs      []domain.KnowledgeBase
	docs     []domain.Document
	err      error
	calls    []string
	waited   bool
}

func (m *MockScopeController) SetProject(_ context.Context, projectID string) {
	m.calls = append(m.calls, "project:"+projectID)
	m.sel = domain.ScopeSelection{ProjectID: projectID}
}

func (m *MockScopeController) SetKnowledgeBase(_ context.Context, kbID string) {
	m.calls = append(m.calls, "kb:"+kbID)
	m.sel.KBID = kbID
	m.sel.DocID = ""
}

func (m *MockScopeController) SetDocument(_ context.Context, docID string) {
	m.calls = append(m.calls, "doc:"+docID)
	m.sel.DocID = docID
}

func (m *MockScopeController) RefreshProjects(_ context.Context) error {
	m.calls = append(m.calls, "refresh-projects")
	return m.err
}

func (m *MockScopeController) RefreshKnowledgeBases(_ context.Context, projectID string) error {
	m.calls = append(m.calls, "refresh-kbs:"+projectID)
	return m.err
}

func (m *MockScopeController) RefreshDocuments(_ context.Context, kbID string) error {
	m.calls = append(m.calls, "refresh-docs:"+kbID)
	return m.err
}

func (m *MockScopeController) Selection() domain.ScopeSelection { return m.sel }

func (m *MockScopeController) Projects() []domain.Project { return m.projects }

func (m *MockScopeController) KnowledgeBases() []domain.KnowledgeBase { return m.kbs }

func (m *MockScopeController) Documents() []domain.Document { return m.docs }

func (m *MockScopeController) Profile() *domain.DocumentProfile { return nil }

func (m *MockScopeController) OnChange(_ func(domain.ScopeEvent)) {}

func (m *MockScopeController) Wait() { m.waited = true }

// MockProfileResolver implements driving.ProfileResolver for tests.
type MockProfileResolver struct {
	profile *domain.DocumentProfile
}

func (m *MockProfileResolver) Fetch(_ context.Context, _ string) *domain.DocumentProfile {
	return m.profile
}

func (m *MockProfileResolver) Invalidate(_ string) {}

// MockConversation implements driving.ConversationController for tests.
type MockConversation struct {
	reply      domain.Turn
	lastError  string
	busy       bool
	opts       domain.ChatOptions
	transcript []domain.Turn
	sent       []string
	sentScope  domain.ScopeSelection
	scope      *MockScopeController
}

func (m *MockConversation) Send(_ context.Context, text string) bool {
	if m.busy {
		return false
	}
	m.sent = append(m.sent, text)
	if m.scope != nil {
		m.sentScope = m.scope.sel
	}
	m.transcript = append(m.transcript, domain.Turn{Role: domain.RoleUser, Content: text}, m.reply)
	return true
}

func (m *MockConversation) Reset() { m.transcript = nil }

func (m *MockConversation) Transcript() []domain.Turn { return m.transcript }

func (m *MockConversation) State() domain.RequestState {
	return domain.RequestState{Busy: m.busy, LastError: m.lastError}
}

func (m *MockConversation) Options() domain.ChatOptions { return m.opts }

func (m *MockConversation) SetOptions(opts domain.ChatOptions) { m.opts = opts }

func (m *MockConversation) OnChange(_ func()) {}

// MockCatalogService implements driving.CatalogService for tests.
type MockCatalogService struct {
	err          error
	health       any
	uploadedName string
	uploadedBody string
	kbProject    string
	kbDesc       string
}

func (m *MockCatalogService) CreateProject(_ context.Context, name string) (*domain.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Project{ID: "p-new", Name: name}, nil
}

func (m *MockCatalogService) CreateKnowledgeBase(
	_ context.Context, projectID, name, description string,
) (*domain.KnowledgeBase, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.kbProject = projectID
	m.kbDesc = description
	return &domain.KnowledgeBase{ID: "kb-new", ProjectID: projectID, Name: name}, nil
}

func (m *MockCatalogService) CreateDocument(_ context.Context, kbID, title string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Document{ID: "d-new", KBID: kbID, Title: title}, nil
}

func (m *MockCatalogService) Upload(_ context.Context, _, filename string, content io.Reader) (any, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	m.uploadedName = filename
	m.uploadedBody = string(data)
	return map[string]any{"chunks": 3}, nil
}

func (m *MockCatalogService) Health(_ context.Context) (any, error) {
	return m.health, m.err
}

// MockRunService implements driving.RunService for tests.
type MockRunService struct {
	run          *domain.AgentRun
	answer       *domain.AgentAnswer
	records      []domain.RunRecord
	err          error
	retryMessage string
	historyLimit int
}

func (m *MockRunService) Get(_ context.Context, _ string) (*domain.AgentRun, error) {
	return m.run, m.err
}

func (m *MockRunService) Retry(_ context.Context, _, message string) (*domain.AgentAnswer, error) {
	m.retryMessage = message
	return m.answer, m.err
}

func (m *MockRunService) History(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.historyLimit = limit
	return m.records, m.err
}

// MockSettingsService implements driving.SettingsService for tests.
type MockSettingsService struct {
	settings domain.AppSettings
	err      error
	setKey   string
	setValue string
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return m.err
}

func (m *MockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.setKey = key
	m.setValue = value
	return nil
}

func (m *MockSettingsService) Keys() []string { return nil }

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
