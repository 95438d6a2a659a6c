package services

import (
	"context"
	"io"
	"sync"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
)

// Ensure mockBackend implements the interface.
var _ driven.Backend = (*mockBackend)(nil)

// mockBackend is a driven.Backend whose calls are routed to optional
// function fields. Unset functions return zero values.
type mockBackend struct {
	mu    sync.Mutex
	calls []string

	LoginFunc               func(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	RegisterFunc            func(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
	ListProjectsFunc        func(ctx context.Context, token string) ([]domain.Project, error)
	ListKnowledgeBasesFunc  func(ctx context.Context, token, projectID string) ([]domain.KnowledgeBase, error)
	ListDocumentsFunc       func(ctx context.Context, token, kbID string) ([]domain.Document, error)
	GetDocumentProfileFunc  func(ctx context.Context, token, docID string) (*domain.DocumentProfile, error)
	CreateProjectFunc       func(ctx context.Context, token, name string) (*domain.Project, error)
	CreateKnowledgeBaseFunc func(ctx context.Context, token, projectID, name, description string) (*domain.KnowledgeBase, error)
	CreateDocumentFunc      func(ctx context.Context, token, kbID, title string) (*domain.Document, error)
	UploadDocumentFunc      func(ctx context.Context, token, docID, filename string, content io.Reader) (any, error)
	QueryFunc               func(ctx context.Context, token string, q domain.AgentQuery) (*domain.AgentAnswer, error)
	GetRunFunc              func(ctx context.Context, token, runID string) (*domain.AgentRun, error)
	RetryRunFunc            func(ctx context.Context, token, runID string, req domain.AgentRetry) (*domain.AgentAnswer, error)
	HealthFunc              func(ctx context.Context) (any, error)
}

func (m *mockBackend) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the names of the methods called so far.
func (m *mockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how many times name was called.
func (m *mockBackend) CallCount(name string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockBackend) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	m.record("Login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &domain.AuthResponse{}, nil
}

func (m *mockBackend) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	m.record("Register")
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &domain.AuthResponse{}, nil
}

func (m *mockBackend) ListProjects(ctx context.Context, token string) ([]domain.Project, error) {
	m.record("ListProjects")
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockBackend) ListKnowledgeBases(ctx context.Context, token, projectID string) ([]domain.KnowledgeBase, error) {
	m.record("ListKnowledgeBases")
	if m.ListKnowledgeBasesFunc != nil {
		return m.ListKnowledgeBasesFunc(ctx, token, projectID)
	}
	return nil, nil
}

func (m *mockBackend) ListDocuments(ctx context.Context, token, kbID string) ([]domain.Document, error) {
	m.record("ListDocuments")
	if m.ListDocumentsFunc != nil {
		return m.ListDocumentsFunc(ctx, token, kbID)
	}
	return nil, nil
}

func (m *mockBackend) GetDocumentProfile(ctx context.Context, token, docID string) (*domain.DocumentProfile, error) {
	m.record("GetDocumentProfile")
	if m.GetDocumentProfileFunc != nil {
		return m.GetDocumentProfileFunc(ctx, token, docID)
	}
	return nil, nil
}

func (m *mockBackend) CreateProject(ctx context.Context, token, name string) (*domain.Project, error) {
	m.record("CreateProject")
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, token, name)
	}
	return &domain.Project{ID: "p-new", Name: name}, nil
}

func (m *mockBackend) CreateKnowledgeBase(ctx context.Context, token, projectID, name, description string) (*domain.KnowledgeBase, error) {
	m.record("CreateKnowledgeBase")
	if m.CreateKnowledgeBaseFunc != nil {
		return m.CreateKnowledgeBaseFunc(ctx, token, projectID, name, description)
	}
	return &domain.KnowledgeBase{ID: "kb-new", ProjectID: projectID, Name: name, Description: description}, nil
}

func (m *mockBackend) CreateDocument(ctx context.Context, token, kbID, title string) (*domain.Document, error) {
	m.record("CreateDocument")
	if m.CreateDocumentFunc != nil {
		return m.CreateDocumentFunc(ctx, token, kbID, title)
	}
	return &domain.Document{ID: "d-new", KBID: kbID, Title: title}, nil
}

func (m *mockBackend) UploadDocument(ctx context.Context, token, docID, filename string, content io.Reader) (any, error) {
	m.record("UploadDocument")
	if m.UploadDocumentFunc != nil {
		return m.UploadDocumentFunc(ctx, token, docID, filename, content)
	}
	return map[string]any{"ok": true}, nil
}

func (m *mockBackend) Query(ctx context.Context, token string, q domain.AgentQuery) (*domain.AgentAnswer, error) {
	m.record("Query")
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, token, q)
	}
	return &domain.AgentAnswer{}, nil
}

func (m *mockBackend) GetRun(ctx context.Context, token, runID string) (*domain.AgentRun, error) {
	m.record("GetRun")
	if m.GetRunFunc != nil {
		return m.GetRunFunc(ctx, token, runID)
	}
	return &domain.AgentRun{ID: runID}, nil
}

func (m *mockBackend) RetryRun(ctx context.Context, token, runID string, req domain.AgentRetry) (*domain.AgentAnswer, error) {
	m.record("RetryRun")
	if m.RetryRunFunc != nil {
		return m.RetryRunFunc(ctx, token, runID, req)
	}
	return &domain.AgentAnswer{RunID: runID + "-retry"}, nil
}

func (m *mockBackend) Health(ctx context.Context) (any, error) {
	m.record("Health")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return map[string]any{"status": "ok"}, nil
}

// staticToken is a TokenSource with a fixed token.
type staticToken string

func (s staticToken) Current() string { return string(s) }

// staticSelection is a SelectionSource with a fixed selection.
type staticSelection domain.ScopeSelection

func (s staticSelection) Selection() domain.ScopeSelection { return domain.ScopeSelection(s) }

// mapProfileCache is a goroutine-free driven.ProfileCache.
type mapProfileCache struct {
	mu sync.Mutex
	m  map[string]*domain.DocumentProfile
}

func newMapProfileCache() *mapProfileCache {
	return &mapProfileCache{m: make(map[string]*domain.DocumentProfile)}
}

func (c *mapProfileCache) Get(docID string) (*domain.DocumentProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.m[docID]
	return p, ok
}

func (c *mapProfileCache) Set(docID string, p *domain.DocumentProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[docID] = p
}

func (c *mapProfileCache) Delete(docID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, docID)
}

// failingTokenStore fails every operation with err.
type failingTokenStore struct{ err error }

func (s failingTokenStore) Load(context.Context, string) (string, error) { return "", s.err }
func (s failingTokenStore) Save(context.Context, string, string) error   { return s.err }
func (s failingTokenStore) Delete(context.Context, string) error         { return s.err }

// stubClaims decodes every token to fixed claims.
type stubClaims struct {
	claims *domain.TokenClaims
	err    error
}

func (s stubClaims) Decode(string) (*domain.TokenClaims, error) { return s.claims, s.err }
