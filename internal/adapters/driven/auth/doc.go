// Package auth decodes the display claims carried by DocFoundry bearer
// tokens. Nothing here verifies a signature: the client never holds the
// signing key and the backend remains the only authority on validity.
package auth
