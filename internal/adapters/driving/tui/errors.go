package tui

import "errors"

// ErrMissingConversation is returned when the conversation controller is not provided.
var ErrMissingConversation = errors.New("tui: conversation controller is required")

// ErrMissingScope is returned when the scope controller is not provided.
var ErrMissingScope = errors.New("tui: scope controller is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
