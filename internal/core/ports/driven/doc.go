// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Backend: the DocFoundry HTTP API (auth, catalog, agent, health)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TokenStore: Bearer token persistence. Without it the token lives for the process only.
//   - ProfileCache: Document profile cache. Without it every selection refetches.
//   - RunLog: Local record of answered queries. Without it run history is empty.
//   - ClaimsDecoder: Token claims for display. Without it tokens are reported as opaque.
//   - TokenWatcher: Change notification for the token store.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
