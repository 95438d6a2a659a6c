package domain

import "fmt"

// Project is the top level of the scope hierarchy.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OrgID     string `json:"org_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// KnowledgeBase groups documents within a project.
type KnowledgeBase struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Document is a single uploaded document within a knowledge base.
type Document struct {
	ID        string `json:"id"`
	KBID      string `json:"kb_id,omitempty"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DisplayTitle returns the title, or "Untitled" when it is empty.
func (d Document) DisplayTitle() string {
	if d.Title == "" {
		return "Untitled"
	}
	return d.Title
}

// DocumentProfile is the backend-generated summary of one document.
type DocumentProfile struct {
	Title     string   `json:"title,omitempty"`
	DocType   string   `json:"doc_type,omitempty"`
	YearStart *int     `json:"year_start,omitempty"`
	YearEnd   *int     `json:"year_end,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Years renders the year range as "start–end", with "?" for a missing
// bound. It returns "" when neither bound is known.
func (p *DocumentProfile) Years() string {
	if p == nil || (p.YearStart == nil && p.YearEnd == nil) {
		return ""
	}
	bound := func(y *int) string {
		if y == nil {
			return "?"
		}
		return fmt.Sprintf("%d", *y)
	}
	return bound(p.YearStart) + "–" + bound(p.YearEnd)
}

// ScopeSelection is the (project, knowledge base, document) filter that
// narrows retrieval. An empty identifier means "unset": no restriction.
type ScopeSelection struct {
	ProjectID string `json:"project_id,omitempty"`
	KBID      string `json:"kb_id,omitempty"`
	DocID     string `json:"document_id,omitempty"`
}

// IsEmpty returns true when no level of the scope is set.
func (s ScopeSelection) IsEmpty() bool {
	return s.ProjectID == "" && s.KBID == "" && s.DocID == ""
}

// String renders the selection as "project=… kb=… doc=…" with "*" for
// unset levels and identifiers shortened to eight characters.
func (s ScopeSelection) String() string {
	return fmt.Sprintf("project=%s kb=%s doc=%s",
		shortID(s.ProjectID), shortID(s.KBID), shortID(s.DocID))
}

func shortID(id string) string {
	if id == "" {
		return "*"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ScopeEventKind identifies what changed in the scope controller.
type ScopeEventKind int

const (
	// ScopeSelectionChanged is emitted after a Set* transition.
	ScopeSelectionChanged ScopeEventKind = iota
	// ScopeProjectsLoaded is emitted when the project list is replaced.
	ScopeProjectsLoaded
	// ScopeKnowledgeBasesLoaded is emitted when the knowledge base list is replaced.
	ScopeKnowledgeBasesLoaded
	// ScopeDocumentsLoaded is emitted when the document list is replaced.
	ScopeDocumentsLoaded
	// ScopeProfileLoaded is emitted when the document profile is set.
	ScopeProfileLoaded
)

// String returns the string representation of the event kind.
func (k ScopeEventKind) String() string {
	switch k {
	case ScopeSelectionChanged:
		return "selection_changed"
	case ScopeProjectsLoaded:
		return "projects_loaded"
	case ScopeKnowledgeBasesLoaded:
		return "knowledge_bases_loaded"
	case ScopeDocumentsLoaded:
		return "documents_loaded"
	case ScopeProfileLoaded:
		return "profile_loaded"
	default:
		return "unknown"
	}
}

// ScopeEvent describes one applied mutation of the scope controller.
type ScopeEvent struct {
	Kind      ScopeEventKind
	Selection ScopeSelection
	// Err is set when a list refresh failed and the list was emptied.
	Err error
}
