package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	StatusText string
	Message    string

	// Body is the decoded response body: JSON value, raw text, or nil.
	Body any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.StatusText, e.Message)
}

// newAPIError builds the error for a failed response. The message is the
// body itself when it is text, else a non-empty "detail" field, else the
// pretty-printed body. raw is the response text, whose key order the
// pretty-printed forms keep.
func newAPIError(status int, statusText string, raw []byte, body any) *APIError {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	return &APIError{
		StatusCode: status,
		StatusText: statusText,
		Message:    errorMessage(raw, body),
		Body:       body,
	}
}

func errorMessage(raw []byte, body any) string {
	if s, ok := body.(string); ok {
		return s
	}
	if m, ok := body.(map[string]any); ok {
		if detail := m["detail"]; truthy(detail) {
			if s, ok := detail.(string); ok {
				return s
			}
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(raw, &fields); err == nil {
				return prettyRaw(fields["detail"], detail)
			}
			return pretty(detail)
		}
	}
	return prettyRaw(raw, body)
}

// truthy reports whether v would count as set: nil, "", false and zero
// are not.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// prettyRaw indents raw JSON by two spaces, keeping its key order and
// its characters as sent. It falls back to pretty(v) when raw is empty or
// not JSON.
func prettyRaw(raw []byte, v any) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return pretty(v)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return pretty(v)
	}
	return buf.String()
}

// pretty renders v as JSON indented by two spaces, without HTML escaping.
func pretty(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// IsNotFound checks if the error is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized checks if the error indicates a rejected or missing token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
