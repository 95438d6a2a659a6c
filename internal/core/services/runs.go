package services

import (
	"context"
	"fmt"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
)

// Ensure RunService implements the interface.
var _ driving.RunService = (*RunService)(nil)

// RunService inspects and retries backend agent runs.
type RunService struct {
	agent  driven.AgentBackend
	tokens TokenSource
	log    driven.RunLog
	opts   func() domain.ChatOptions
}

// NewRunService creates a run service. opts supplies the options used
// for retries; log may be nil.
func NewRunService(agent driven.AgentBackend, tokens TokenSource, log driven.RunLog, opts func() domain.ChatOptions) *RunService {
	return &RunService{
		agent:  agent,
		tokens: tokens,
		log:    log,
		opts:   opts,
	}
}

// Get fetches a stored run with its steps.
func (s *RunService) Get(ctx context.Context, runID string) (*domain.AgentRun, error) {
	if s.agent == nil {
		return nil, domain.ErrNotImplemented
	}
	if runID == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	if !s.authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return s.agent.GetRun(ctx, s.tokens.Current(), runID)
}

// Retry re-executes a run. An empty message reuses the original one.
func (s *RunService) Retry(ctx context.Context, runID, message string) (*domain.AgentAnswer, error) {
	if s.agent == nil {
		return nil, domain.ErrNotImplemented
	}
	if runID == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	if !s.authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	opts := domain.ChatOptions{TopK: domain.DefaultTopK}
	if s.opts != nil {
		opts = s.opts()
	}
	req := domain.AgentRetry{
		Message:     message,
		TopK:        domain.ClampTopK(opts.TopK),
		ReturnSteps: opts.ShowTrace,
		Mode:        opts.Mode,
		MaxSteps:    opts.MaxSteps,
	}
	return s.agent.RetryRun(ctx, s.tokens.Current(), runID, req)
}

// History returns locally recorded runs, newest first.
func (s *RunService) History(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if s.log == nil {
		return nil, nil
	}
	recs, err := s.log.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return recs, nil
}

func (s *RunService) authenticated() bool {
	return s.tokens != nil && s.tokens.Current() != ""
}
