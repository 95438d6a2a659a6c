// Package mcp provides an MCP (Model Context Protocol) server adapter for docfoundry.
// It lets AI assistants browse the scope hierarchy and ask scoped questions.
package mcp

import "errors"

// ErrMissingConversation is returned when the conversation controller is not provided.
var ErrMissingConversation = errors.New("mcp: conversation controller is required")

// ErrMissingScope is returned when the scope controller is not provided.
var ErrMissingScope = errors.New("mcp: scope controller is required")
