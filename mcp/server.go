// Package mcp serves the catalog to AI agents over the Model Context
// Protocol.
package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/chatad"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Name and Version identify the server to clients.
const (
	Name    = "adni-docs"
	Version = "0.1.0"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Server exposes catalog resources and the search, listing and fetch tools.
type Server struct {
	catalog chatad.CatalogSource
	fetcher chatad.DocumentFetcher
	server  *mcp.Server
}

// NewServer creates a Server reading the catalog from catalog and document
// text through fetcher.
func NewServer(catalog chatad.CatalogSource, fetcher chatad.DocumentFetcher) *Server {
	s := &Server{
		catalog: catalog,
		fetcher: fetcher,
		server:  mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, nil),
	}
	s.registerResources()
	s.registerTools()
	return s
}

// Connect starts a session over transport. It is used by tests and by
// callers that manage their own transport.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

// Run serves a single client over stdio until ctx is canceled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves streamable HTTP on addr until ctx is canceled, then
// shuts down gracefully.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
