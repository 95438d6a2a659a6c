// Package cli implements the docfoundry command line.
//
// Commands are cobra commands registered on rootCmd from init functions.
// Services are injected once from main through SetServices; every command
// checks the service it needs and fails with a "not configured" error when
// it is missing.
package cli
