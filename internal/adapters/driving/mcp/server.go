package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// Version is reported to MCP clients during initialisation.
const Version = "0.1.0"

const serverName = "docfoundry"

// Server exposes DocFoundry question answering and the project,
// knowledge base and document hierarchy to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server

	// askMu serialises scope changes and the query that uses them.
	askMu sync.Mutex
}

// NewServer validates ports and registers the tools and resources they back.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: serverName, Version: Version},
			&mcp.ServerOptions{Instructions: instructions(ports)},
		),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells the client how scope and ask relate, mentioning only
// the optional capabilities that are wired.
func instructions(p *Ports) string {
	var b strings.Builder
	b.WriteString("Answers questions from DocFoundry documents. ")
	b.WriteString("Use list_projects, list_knowledge_bases and list_documents to find ids, ")
	b.WriteString("then pass project_id, kb_id or document_id to ask to narrow the search. ")
	b.WriteString("The scope given to ask stays selected for later calls.")
	if p.Profiles != nil {
		b.WriteString(" document_profile describes a single document.")
	}
	if p.Runs != nil {
		b.WriteString(" Past runs are readable as resources.")
	}
	return b.String()
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving %s %s over stdio", serverName, Version)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves MCP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	logger.Info("mcp: listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
