// Package memory provides in-memory implementations of driven ports.
//
// Adapters:
//   - ConfigStore: map-backed configuration
//   - TokenStore: map-backed token persistence for tests
//   - RunLog: bounded run history for tests
//   - ProfileCache: expiring document profile cache on go-cache
package memory
