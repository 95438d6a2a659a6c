package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

func TestCatalogService_CreateProject_RefreshesList(t *testing.T) {
	backend := &mockBackend{
		ListProjectsFunc: func(context.Context, string) ([]domain.Project, error) {
			return []domain.Project{{ID: "p-new", Name: "Docs"}}, nil
		},
	}
	scope := newTestScope(backend)
	s := NewCatalogService(backend, staticToken("tok"), scope, nil)

	p, err := s.CreateProject(context.Background(), "  Docs ")

	require.NoError(t, err)
	assert.Equal(t, "Docs", p.Name)
	assert.Equal(t, []domain.Project{{ID: "p-new", Name: "Docs"}}, scope.Projects())
}

func TestCatalogService_CreateProject_Validation(t *testing.T) {
	backend := &mockBackend{}
	s := NewCatalogService(backend, staticToken("tok"), nil, nil)

	_, err := s.CreateProject(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, backend.Calls())
}

func TestCatalogService_CreateKnowledgeBase(t *testing.T) {
	backend := &mockBackend{}
	scope := newTestScope(backend)
	s := NewCatalogService(backend, staticToken("tok"), scope, nil)
	ctx := context.Background()

	// Not the selected project: no refresh.
	kb, err := s.CreateKnowledgeBase(ctx, "p1", "Specs", "design docs")
	require.NoError(t, err)
	assert.Equal(t, "design docs", kb.Description)
	assert.Equal(t, 0, backend.CallCount("ListKnowledgeBases"))

	scope.SetProject(ctx, "p1")
	scope.Wait()
	_, err = s.CreateKnowledgeBase(ctx, "p1", "More", "")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.CallCount("ListKnowledgeBases"))

	_, err = s.CreateKnowledgeBase(ctx, "", "x", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogService_CreateKnowledgeBase_ProjectSwitchedDuringRefresh(t *testing.T) {
	var scope *ScopeController
	armed := false
	backend := &mockBackend{
		ListKnowledgeBasesFunc: func(ctx context.Context, _, projectID string) ([]domain.KnowledgeBase, error) {
			if projectID == "p1" && armed {
				armed = false
				scope.SetProject(ctx, "p2")
			}
			return []domain.KnowledgeBase{{ID: "kb-of-" + projectID, ProjectID: projectID}}, nil
		},
	}
	scope = newTestScope(backend)
	s := NewCatalogService(backend, staticToken("tok"), scope, nil)
	ctx := context.Background()

	scope.SetProject(ctx, "p1")
	scope.Wait()

	armed = true
	_, err := s.CreateKnowledgeBase(ctx, "p1", "Specs", "")
	require.NoError(t, err)
	scope.Wait()

	assert.Equal(t, "p2", scope.Selection().ProjectID)
	assert.Equal(t, []domain.KnowledgeBase{{ID: "kb-of-p2", ProjectID: "p2"}}, scope.KnowledgeBases())
}

func TestCatalogService_CreateDocument(t *testing.T) {
	backend := &mockBackend{}
	scope := newTestScope(backend)
	s := NewCatalogService(backend, staticToken("tok"), scope, nil)
	ctx := context.Background()

	scope.SetKnowledgeBase(ctx, "kb1")
	scope.Wait()
	doc, err := s.CreateDocument(ctx, "kb1", "Report")

	require.NoError(t, err)
	assert.Equal(t, "Report", doc.Title)
	assert.Equal(t, 2, backend.CallCount("ListDocuments"))
}

func TestCatalogService_CreateFailureWrapped(t *testing.T) {
	backend := &mockBackend{
		CreateDocumentFunc: func(context.Context, string, string, string) (*domain.Document, error) {
			return nil, errors.New("404 Not Found: KB not found")
		},
	}
	s := NewCatalogService(backend, staticToken("tok"), nil, nil)

	_, err := s.CreateDocument(context.Background(), "kb1", "Report")

	assert.EqualError(t, err, "create document: 404 Not Found: KB not found")
}

func TestCatalogService_Upload_InvalidatesProfile(t *testing.T) {
	cache := newMapProfileCache()
	cache.Set("d1", &domain.DocumentProfile{Title: "old"})
	var gotName, gotBody string
	backend := &mockBackend{
		UploadDocumentFunc: func(_ context.Context, _, _, filename string, content io.Reader) (any, error) {
			gotName = filename
			b, err := io.ReadAll(content)
			require.NoError(t, err)
			gotBody = string(b)
			return map[string]any{"chunks": 3}, nil
		},
	}
	profiles := NewProfileResolver(backend, staticToken("tok"), cache)
	s := NewCatalogService(backend, staticToken("tok"), nil, profiles)

	res, err := s.Upload(context.Background(), "d1", "a.txt", strings.NewReader("hello"))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"chunks": 3}, res)
	assert.Equal(t, "a.txt", gotName)
	assert.Equal(t, "hello", gotBody)
	_, ok := cache.Get("d1")
	assert.False(t, ok)
}

func TestCatalogService_Health(t *testing.T) {
	s := NewCatalogService(&mockBackend{}, nil, nil, nil)

	res, err := s.Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "ok"}, res)
}

func TestCatalogService_NilBackend(t *testing.T) {
	s := NewCatalogService(nil, nil, nil, nil)

	_, err := s.CreateProject(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = s.Health(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
