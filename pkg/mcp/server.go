package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/iconify/pkg/folder"
	"github.com/macropower/iconify/pkg/iconify"
	"github.com/macropower/iconify/pkg/rule"
	"github.com/macropower/iconify/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// Resolver answers icon lookups. It is implemented by [iconify.Service].
type Resolver interface {
	Lookup(q folder.Query) iconify.Match
	Identify(p string) folder.ID
	Root() string
}

// Server implements the MCP server for iconify.
type Server struct {
	svc     Resolver
	server  *mcp.Server
	tracer  trace.Tracer
	address string
}

// NewServer creates a new MCP server. An empty address serves over stdio.
func NewServer(address string, svc Resolver) *Server {
	s := &Server{
		address: address,
		svc:     svc,
		tracer:  otel.Tracer("iconify-mcp"),
		server: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version.GetVersion(),
		}, &mcp.ServerOptions{
			Instructions: instructions,
		}),
	}

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compile_pattern",
		Description: "Validate a folder wildcard pattern, show the expression it compiles to, and test it against sample folder names or paths.",
	}, WithTracing(s.tracer, "compile_pattern", s.handleCompilePattern))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_icon",
		Description: "Find the first rule matching a project folder and return its icon. You MUST specify a path.",
	}, WithTracing(s.tracer, "find_icon", s.handleFindIcon))
}

// CompilePattern runs the compile_pattern tool.
func (s *Server) CompilePattern(ctx context.Context, in CompilePatternParams) (CompilePatternResult, error) {
	_, out, err := WithTracing(s.tracer, "compile_pattern", s.handleCompilePattern)(ctx, nil, in)
	return out, err
}

// FindIcon runs the find_icon tool.
func (s *Server) FindIcon(ctx context.Context, in FindIconParams) (FindIconResult, error) {
	_, out, err := WithTracing(s.tracer, "find_icon", s.handleFindIcon)(ctx, nil, in)
	return out, err
}

func (s *Server) root() string {
	if s.svc == nil {
		return rule.DefaultRoot
	}

	return s.svc.Root()
}

// Server returns the underlying MCP server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve runs the server until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.server.Run(ctx, &mcp.StdioTransport{})
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.Error("shut down MCP server", slog.Any("err", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
