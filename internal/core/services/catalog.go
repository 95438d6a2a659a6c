package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService creates scope entities and uploads document content.
type CatalogService struct {
	backend  driven.Backend
	tokens   TokenSource
	scope    driving.ScopeController
	profiles driving.ProfileResolver
}

// NewCatalogService creates a catalog service. scope and profiles may be nil.
func NewCatalogService(
	backend driven.Backend,
	tokens TokenSource,
	scope driving.ScopeController,
	profiles driving.ProfileResolver,
) *CatalogService {
	return &CatalogService{
		backend:  backend,
		tokens:   tokens,
		scope:    scope,
		profiles: profiles,
	}
}

// CreateProject creates a project and refreshes the project list.
func (s *CatalogService) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
	}

	p, err := s.backend.CreateProject(ctx, s.token(), name)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	logger.Info("Created project %s (%s)", p.ID, p.Name)

	if s.scope != nil {
		if err := s.scope.RefreshProjects(ctx); err != nil {
			logger.Warn("Refresh projects after create failed: %v", err)
		}
	}
	return p, nil
}

// CreateKnowledgeBase creates a knowledge base and refreshes the list
// when projectID is the selected project.
func (s *CatalogService) CreateKnowledgeBase(ctx context.Context, projectID, name, description string) (*domain.KnowledgeBase, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	name = strings.TrimSpace(name)
	if projectID == "" || name == "" {
		return nil, fmt.Errorf("%w: project and name are required", domain.ErrInvalidInput)
	}

	kb, err := s.backend.CreateKnowledgeBase(ctx, s.token(), projectID, name, description)
	if err != nil {
		return nil, fmt.Errorf("create knowledge base: %w", err)
	}
	logger.Info("Created knowledge base %s (%s)", kb.ID, kb.Name)

	if s.scope != nil && s.scope.Selection().ProjectID == projectID {
		if err := s.scope.RefreshKnowledgeBases(ctx, projectID); err != nil {
			logger.Warn("Refresh knowledge bases after create failed: %v", err)
		}
	}
	return kb, nil
}

// CreateDocument creates an empty document and refreshes the list when
// kbID is the selected knowledge base.
func (s *CatalogService) CreateDocument(ctx context.Context, kbID, title string) (*domain.Document, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	title = strings.TrimSpace(title)
	if kbID == "" || title == "" {
		return nil, fmt.Errorf("%w: knowledge base and title are required", domain.ErrInvalidInput)
	}

	doc, err := s.backend.CreateDocument(ctx, s.token(), kbID, title)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	logger.Info("Created document %s (%s)", doc.ID, doc.Title)

	if s.scope != nil && s.scope.Selection().KBID == kbID {
		if err := s.scope.RefreshDocuments(ctx, kbID); err != nil {
			logger.Warn("Refresh documents after create failed: %v", err)
		}
	}
	return doc, nil
}

// Upload sends content for docID and drops its cached profile, since the
// backend regenerates it from the new content.
func (s *CatalogService) Upload(ctx context.Context, docID, filename string, content io.Reader) (any, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	if docID == "" || filename == "" || content == nil {
		return nil, fmt.Errorf("%w: document and file are required", domain.ErrInvalidInput)
	}

	res, err := s.backend.UploadDocument(ctx, s.token(), docID, filename, content)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	logger.Info("Uploaded %s to document %s", filename, docID)

	if s.profiles != nil {
		s.profiles.Invalidate(docID)
	}
	return res, nil
}

// Health probes the backend.
func (s *CatalogService) Health(ctx context.Context) (any, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.backend.Health(ctx)
}

func (s *CatalogService) token() string {
	if s.tokens == nil {
		return ""
	}
	return s.tokens.Current()
}
