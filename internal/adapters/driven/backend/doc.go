// Package backend implements the DocFoundry HTTP API as a driven adapter.
//
// Transport is the single point of contact with the backend: it attaches
// the bearer token, encodes JSON bodies, decodes JSON-or-text responses
// and turns non-2xx statuses into *APIError. Client layers the typed
// endpoints of driven.Backend on top of it.
package backend
