// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The scope controller and the conversation controller are the two
// stateful services. Both are safe for concurrent use and notify
// registered listeners after every applied change, outside their locks.
//
// Services are pure Go with no CGO or external dependencies.
package services
