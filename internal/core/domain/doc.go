// Package domain defines the core business entities for DocFoundry.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Project, KnowledgeBase, Document: the scope hierarchy
//   - ScopeSelection: the (project, knowledge base, document) filter
//   - DocumentProfile: a best-effort summary of one document
//   - Turn, Citation, AgentStep: the chat transcript
//   - AppSettings: client configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
