// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// TranscriptChanged is sent when the conversation transcript or request
// state changed.
type TranscriptChanged struct{}

// SendCompleted is sent when a Send returns.
type SendCompleted struct {
	// Accepted is false when the message was dropped.
	Accepted bool
}

// ScopeChanged carries a mutation applied by the scope controller.
type ScopeChanged struct {
	Event domain.ScopeEvent
}

// ScopeLoaded is sent when the initial lists have been fetched.
type ScopeLoaded struct {
	Err error
}

// CredentialsChanged is sent when the token was set or cleared.
type CredentialsChanged struct {
	Authenticated bool
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// Pane identifies which pane has keyboard focus.
type Pane int

const (
	// PaneInput is the chat input.
	PaneInput Pane = iota
	// PaneProjects is the project list.
	PaneProjects
	// PaneKnowledgeBases is the knowledge base list.
	PaneKnowledgeBases
	// PaneDocuments is the document list.
	PaneDocuments
)

// paneCount is the number of focusable panes.
const paneCount = 4

// Next returns the pane after p, wrapping around.
func (p Pane) Next() Pane {
	return (p + 1) % paneCount
}

// Prev returns the pane before p, wrapping around.
func (p Pane) Prev() Pane {
	return (p + paneCount - 1) % paneCount
}

// String returns the string representation of the pane.
func (p Pane) String() string {
	switch p {
	case PaneInput:
		return "input"
	case PaneProjects:
		return "projects"
	case PaneKnowledgeBases:
		return "knowledge_bases"
	case PaneDocuments:
		return "documents"
	default:
		return "unknown"
	}
}
