package memory

import (
	"context"
	"sync"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
)

// Ensure RunLog implements the interface.
var _ driven.RunLog = (*RunLog)(nil)

// RunLog is an in-memory implementation of driven.RunLog.
type RunLog struct {
	mu      sync.RWMutex
	records []domain.RunRecord
}

// NewRunLog creates an empty run log.
func NewRunLog() *RunLog {
	return &RunLog{}
}

// Append records one run.
func (l *RunLog) Append(_ context.Context, rec domain.RunRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

// List returns the most recent runs, newest first.
func (l *RunLog) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.RunRecord, 0, n)
	for i := len(l.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}
