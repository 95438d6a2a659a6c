package mcp

import (
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Conversation answers questions.
	Conversation driving.ConversationController

	// Scope lists projects, knowledge bases and documents and holds the
	// selection used by ask.
	Scope driving.ScopeController

	// Profiles resolves document profiles. Optional.
	Profiles driving.ProfileResolver

	// Runs reads stored and locally logged runs. Optional.
	Runs driving.RunService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Conversation == nil {
		return ErrMissingConversation
	}
	if p.Scope == nil {
		return ErrMissingScope
	}
	return nil
}
