package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.Backend = (*Client)(nil)

// Client is the typed DocFoundry API.
type Client struct {
	transport *Transport
}

// NewClient creates a client over transport.
func NewClient(transport *Transport) *Client {
	return &Client{transport: transport}
}

// Transport returns the underlying transport.
func (c *Client) Transport() *Transport {
	return c.transport
}

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	return c.auth(ctx, "/auth/login", req)
}

// Register calls POST /auth/register.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	return c.auth(ctx, "/auth/register", req)
}

func (c *Client) auth(ctx context.Context, path string, body any) (*domain.AuthResponse, error) {
	res, err := c.transport.Call(ctx, path, CallOptions{Method: http.MethodPost, Body: body})
	if err != nil {
		return nil, err
	}
	var out domain.AuthResponse
	if err := decodeInto(res, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProjects calls GET /projects/. A non-array response yields an
// empty list.
func (c *Client) ListProjects(ctx context.Context, token string) ([]domain.Project, error) {
	res, err := c.transport.Call(ctx, "/projects/", CallOptions{Token: token})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Project](res)
}

// ListKnowledgeBases calls GET /kb/, filtered by project when projectID
// is set.
func (c *Client) ListKnowledgeBases(ctx context.Context, token, projectID string) ([]domain.KnowledgeBase, error) {
	res, err := c.transport.Call(ctx, "/kb/"+query("project_id", projectID), CallOptions{Token: token})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.KnowledgeBase](res)
}

// ListDocuments calls GET /documents/, filtered by knowledge base when
// kbID is set.
func (c *Client) ListDocuments(ctx context.Context, token, kbID string) ([]domain.Document, error) {
	res, err := c.transport.Call(ctx, "/documents/"+query("kb_id", kbID), CallOptions{Token: token})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Document](res)
}

// GetDocumentProfile calls GET /documents/{id}/profile.
func (c *Client) GetDocumentProfile(ctx context.Context, token, docID string) (*domain.DocumentProfile, error) {
	res, err := c.transport.Call(ctx, "/documents/"+url.PathEscape(docID)+"/profile", CallOptions{Token: token})
	if err != nil {
		return nil, err
	}
	if _, ok := res.Value.(map[string]any); !ok {
		return nil, nil
	}
	var out domain.DocumentProfile
	if err := decodeInto(res, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject calls POST /projects/.
func (c *Client) CreateProject(ctx context.Context, token, name string) (*domain.Project, error) {
	body := map[string]any{"name": name}
	var out domain.Project
	if err := c.post(ctx, token, "/projects/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateKnowledgeBase calls POST /kb/. An empty description is sent as null.
func (c *Client) CreateKnowledgeBase(ctx context.Context, token, projectID, name, description string) (*domain.KnowledgeBase, error) {
	body := map[string]any{
		"project_id":  projectID,
		"name":        name,
		"description": nil,
	}
	if description != "" {
		body["description"] = description
	}
	var out domain.KnowledgeBase
	if err := c.post(ctx, token, "/kb/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDocument calls POST /documents/.
func (c *Client) CreateDocument(ctx context.Context, token, kbID, title string) (*domain.Document, error) {
	body := map[string]any{"kb_id": kbID, "title": title}
	var out domain.Document
	if err := c.post(ctx, token, "/documents/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadDocument calls POST /documents/{id}/upload with content in a
// multipart "file" field and returns the decoded response.
func (c *Client) UploadDocument(ctx context.Context, token, docID, filename string, content io.Reader) (any, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read upload content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	res, err := c.transport.Call(ctx, "/documents/"+url.PathEscape(docID)+"/upload", CallOptions{
		Method:      http.MethodPost,
		Token:       token,
		Form:        &buf,
		ContentType: w.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Query calls POST /agent/query.
func (c *Client) Query(ctx context.Context, token string, q domain.AgentQuery) (*domain.AgentAnswer, error) {
	var out domain.AgentAnswer
	if err := c.post(ctx, token, "/agent/query", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRun calls GET /agent/runs/{id}.
func (c *Client) GetRun(ctx context.Context, token, runID string) (*domain.AgentRun, error) {
	res, err := c.transport.Call(ctx, "/agent/runs/"+url.PathEscape(runID), CallOptions{Token: token})
	if err != nil {
		return nil, err
	}
	var out domain.AgentRun
	if err := decodeInto(res, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetryRun calls POST /agent/runs/{id}/retry.
func (c *Client) RetryRun(ctx context.Context, token, runID string, req domain.AgentRetry) (*domain.AgentAnswer, error) {
	var out domain.AgentAnswer
	if err := c.post(ctx, token, "/agent/runs/"+url.PathEscape(runID)+"/retry", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (any, error) {
	res, err := c.transport.Call(ctx, "/health", CallOptions{})
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

func (c *Client) post(ctx context.Context, token, path string, body, out any) error {
	res, err := c.transport.Call(ctx, path, CallOptions{
		Method: http.MethodPost,
		Token:  token,
		Body:   body,
	})
	if err != nil {
		return err
	}
	return decodeInto(res, out)
}

// decodeInto unmarshals an object response into out. Responses that are
// not JSON objects leave out untouched.
func decodeInto(res *Result, out any) error {
	if _, ok := res.Value.(map[string]any); !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Raw), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeList unmarshals an array response. Anything else yields an empty
// list.
func decodeList[T any](res *Result) ([]T, error) {
	if _, ok := res.Value.([]any); !ok {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(res.Raw), &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func query(key, value string) string {
	if value == "" {
		return ""
	}
	return "?" + key + "=" + url.QueryEscape(value)
}
