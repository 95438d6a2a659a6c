package services

import (
	"context"
	"sync"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// Ensure ScopeController implements the interface.
var _ driving.ScopeController = (*ScopeController)(nil)

// ScopeController owns the project → knowledge base → document selection.
//
// Every selection change bumps the generation of its level and of every
// level below it and, under the same lock, issues the ticket of the
// refresh it triggers. A refresh is applied only if its generation and
// its ticket are still current and its parent id is still selected, so
// the last selection always wins and a superseded response is dropped
// rather than merged.
type ScopeController struct {
	catalog  driven.CatalogBackend
	tokens   TokenSource
	profiles driving.ProfileResolver

	mu        sync.Mutex
	sel       domain.ScopeSelection
	projects  []domain.Project
	kbs       []domain.KnowledgeBase
	docs      []domain.Document
	profile   *domain.DocumentProfile
	listeners []func(domain.ScopeEvent)

	// Generations, bumped by selection changes at that level or above.
	projectGen uint64
	kbGen      uint64
	docGen     uint64

	// Request sequences, one per list.
	projectsSeq uint64
	kbsSeq      uint64
	docsSeq     uint64
	profileSeq  uint64

	wg sync.WaitGroup
}

// NewScopeController creates a scope controller with empty lists and
// nothing selected.
func NewScopeController(
	catalog driven.CatalogBackend,
	tokens TokenSource,
	profiles driving.ProfileResolver,
) *ScopeController {
	return &ScopeController{
		catalog:  catalog,
		tokens:   tokens,
		profiles: profiles,
	}
}

// SetProject selects a project and resets everything below it. The
// knowledge base list is then refreshed in the background, unfiltered
// when projectID is "".
func (c *ScopeController) SetProject(ctx context.Context, projectID string) {
	c.mu.Lock()
	c.sel = domain.ScopeSelection{ProjectID: projectID}
	c.docs = []domain.Document{}
	c.profile = nil
	c.projectGen++
	c.kbGen++
	c.docGen++
	t := c.kbsTicketLocked()
	ev := c.eventLocked(domain.ScopeSelectionChanged, nil)
	c.mu.Unlock()

	logger.Debug("Scope: project=%q", projectID)
	c.emit(ev)

	c.goAsync(ctx, func(ctx context.Context) {
		if err := c.refreshKnowledgeBases(ctx, projectID, t); err != nil {
			logger.Warn("Refresh knowledge bases for project %q failed: %v", projectID, err)
		}
	})
}

// SetKnowledgeBase selects a knowledge base and clears the document.
// The document list is refreshed in the background only when kbID is set;
// clearing the knowledge base leaves the list as it was.
func (c *ScopeController) SetKnowledgeBase(ctx context.Context, kbID string) {
	c.mu.Lock()
	c.sel.KBID = kbID
	c.sel.DocID = ""
	c.profile = nil
	c.kbGen++
	c.docGen++
	var t ticket
	if kbID != "" {
		t = c.docsTicketLocked()
	}
	ev := c.eventLocked(domain.ScopeSelectionChanged, nil)
	c.mu.Unlock()

	logger.Debug("Scope: kb=%q", kbID)
	c.emit(ev)

	if kbID == "" {
		return
	}
	c.goAsync(ctx, func(ctx context.Context) {
		if err := c.refreshDocuments(ctx, kbID, t); err != nil {
			logger.Warn("Refresh documents for knowledge base %q failed: %v", kbID, err)
		}
	})
}

// SetDocument selects a document. The profile is cleared at once and,
// when docID is set, resolved in the background.
func (c *ScopeController) SetDocument(ctx context.Context, docID string) {
	c.mu.Lock()
	c.sel.DocID = docID
	c.profile = nil
	c.docGen++
	c.profileSeq++
	gen, seq := c.docGen, c.profileSeq
	ev := c.eventLocked(domain.ScopeSelectionChanged, nil)
	c.mu.Unlock()

	logger.Debug("Scope: doc=%q", docID)
	c.emit(ev)

	if docID == "" || c.profiles == nil {
		return
	}
	c.goAsync(ctx, func(ctx context.Context) {
		p := c.profiles.Fetch(ctx, docID)

		c.mu.Lock()
		if gen != c.docGen || seq != c.profileSeq {
			c.mu.Unlock()
			logger.Debug("Dropping stale profile for document %q", docID)
			return
		}
		c.profile = p
		ev := c.eventLocked(domain.ScopeProfileLoaded, nil)
		c.mu.Unlock()

		c.emit(ev)
	})
}

// RefreshProjects replaces the project list. On failure the list is
// emptied and the error returned.
func (c *ScopeController) RefreshProjects(ctx context.Context) error {
	if c.catalog == nil {
		return domain.ErrNotImplemented
	}

	c.mu.Lock()
	c.projectsSeq++
	seq := c.projectsSeq
	c.mu.Unlock()

	projects, err := c.catalog.ListProjects(ctx, c.token())

	c.mu.Lock()
	if seq != c.projectsSeq {
		c.mu.Unlock()
		logger.Debug("Dropping stale project list")
		return err
	}
	c.projects = orEmpty(projects, err)
	ev := c.eventLocked(domain.ScopeProjectsLoaded, err)
	c.mu.Unlock()

	c.emit(ev)
	return err
}

// RefreshKnowledgeBases replaces the knowledge base list. The result is
// applied only while projectID is the selected project and no selection
// change or newer refresh happened while it was in flight. The backend
// error is returned either way.
func (c *ScopeController) RefreshKnowledgeBases(ctx context.Context, projectID string) error {
	if c.catalog == nil {
		return domain.ErrNotImplemented
	}

	c.mu.Lock()
	var t ticket
	if projectID == c.sel.ProjectID {
		t = c.kbsTicketLocked()
	}
	c.mu.Unlock()

	return c.refreshKnowledgeBases(ctx, projectID, t)
}

func (c *ScopeController) refreshKnowledgeBases(ctx context.Context, projectID string, t ticket) error {
	if c.catalog == nil {
		return domain.ErrNotImplemented
	}

	kbs, err := c.catalog.ListKnowledgeBases(ctx, c.token(), projectID)

	c.mu.Lock()
	if !t.valid || t.seq != c.kbsSeq || t.gen != c.projectGen || projectID != c.sel.ProjectID {
		c.mu.Unlock()
		logger.Debug("Dropping stale knowledge base list for project %q", projectID)
		return err
	}
	c.kbs = orEmpty(kbs, err)
	ev := c.eventLocked(domain.ScopeKnowledgeBasesLoaded, err)
	c.mu.Unlock()

	c.emit(ev)
	return err
}

// RefreshDocuments replaces the document list. The result is applied
// only while kbID is the selected knowledge base and no selection change
// (at that level or above) or newer refresh happened while it was in
// flight. The backend error is returned either way.
func (c *ScopeController) RefreshDocuments(ctx context.Context, kbID string) error {
	if c.catalog == nil {
		return domain.ErrNotImplemented
	}

	c.mu.Lock()
	var t ticket
	if kbID == c.sel.KBID {
		t = c.docsTicketLocked()
	}
	c.mu.Unlock()

	return c.refreshDocuments(ctx, kbID, t)
}

func (c *ScopeController) refreshDocuments(ctx context.Context, kbID string, t ticket) error {
	if c.catalog == nil {
		return domain.ErrNotImplemented
	}

	docs, err := c.catalog.ListDocuments(ctx, c.token(), kbID)

	c.mu.Lock()
	if !t.valid || t.seq != c.docsSeq || t.gen != c.kbGen || kbID != c.sel.KBID {
		c.mu.Unlock()
		logger.Debug("Dropping stale document list for knowledge base %q", kbID)
		return err
	}
	c.docs = orEmpty(docs, err)
	ev := c.eventLocked(domain.ScopeDocumentsLoaded, err)
	c.mu.Unlock()

	c.emit(ev)
	return err
}

// Selection returns the current selection.
func (c *ScopeController) Selection() domain.ScopeSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

// Projects returns a copy of the project list.
func (c *ScopeController) Projects() []domain.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Project(nil), c.projects...)
}

// KnowledgeBases returns a copy of the knowledge base list.
func (c *ScopeController) KnowledgeBases() []domain.KnowledgeBase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.KnowledgeBase(nil), c.kbs...)
}

// Documents returns a copy of the document list.
func (c *ScopeController) Documents() []domain.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Document(nil), c.docs...)
}

// Profile returns the profile of the selected document, or nil.
func (c *ScopeController) Profile() *domain.DocumentProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// OnChange registers fn to receive every applied mutation.
// Listeners run on the goroutine that applied the change.
func (c *ScopeController) OnChange(fn func(domain.ScopeEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Wait blocks until all background refreshes have settled.
func (c *ScopeController) Wait() {
	c.wg.Wait()
}

// goAsync runs fn in a tracked goroutine. The context keeps its values
// but not its cancellation: superseded requests run to completion and
// are discarded by the staleness check.
func (c *ScopeController) goAsync(ctx context.Context, fn func(context.Context)) {
	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(ctx)
	}()
}

// ticket stamps a list refresh with the generation of its triggering
// level and its place in the list's request sequence. The zero ticket is
// never applied.
type ticket struct {
	gen   uint64
	seq   uint64
	valid bool
}

// kbsTicketLocked issues the next knowledge base refresh ticket (caller
// must hold mu).
func (c *ScopeController) kbsTicketLocked() ticket {
	c.kbsSeq++
	return ticket{gen: c.projectGen, seq: c.kbsSeq, valid: true}
}

// docsTicketLocked issues the next document refresh ticket (caller must
// hold mu).
func (c *ScopeController) docsTicketLocked() ticket {
	c.docsSeq++
	return ticket{gen: c.kbGen, seq: c.docsSeq, valid: true}
}

func (c *ScopeController) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Current()
}

// eventLocked snapshots an event and the listeners (caller must hold mu).
func (c *ScopeController) eventLocked(kind domain.ScopeEventKind, err error) scopeDispatch {
	return scopeDispatch{
		event:     domain.ScopeEvent{Kind: kind, Selection: c.sel, Err: err},
		listeners: append([]func(domain.ScopeEvent){}, c.listeners...),
	}
}

func (c *ScopeController) emit(d scopeDispatch) {
	for _, fn := range d.listeners {
		fn(d.event)
	}
}

type scopeDispatch struct {
	event     domain.ScopeEvent
	listeners []func(domain.ScopeEvent)
}

// orEmpty returns an empty non-nil list on error or a nil result.
func orEmpty[T any](list []T, err error) []T {
	if err != nil || list == nil {
		return []T{}
	}
	return list
}
