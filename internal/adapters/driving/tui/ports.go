// Package tui provides the interactive chat interface for docfoundry.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Conversation owns the transcript and the in-flight query.
	Conversation driving.ConversationController

	// Scope owns the project, knowledge base and document selection.
	Scope driving.ScopeController

	// Credentials reports who is signed in. Optional.
	Credentials driving.CredentialService
}

// NewPorts creates a Ports aggregate with the required services.
func NewPorts(conversation driving.ConversationController, scope driving.ScopeController) *Ports {
	return &Ports{
		Conversation: conversation,
		Scope:        scope,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Conversation == nil {
		return ErrMissingConversation
	}
	if p.Scope == nil {
		return ErrMissingScope
	}
	return nil
}
