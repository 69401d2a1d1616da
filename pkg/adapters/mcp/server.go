package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Relay is the subset of relay.Service exposed as tools.
type Relay interface {
	Simplify(ctx context.Context, prompt string) (string, error)
	GenerateTitle(ctx context.Context, prompt string) string
}

// Server exposes the relay as an MCP server with simplify and generate_title tools.
type Server struct {
	relay     Relay
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(r Relay, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		relay:     r,
		mcpServer: server.NewMCPServer("stepwise-mcp", version),
		logger:    logger,
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over Server-Sent Events until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- sseServer.Start(addr)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	simplifyTool := mcp.NewTool("simplify",
		mcp.WithDescription("Rewrite a Data Structures and Algorithms problem as a simpler 1-2 sentence subproblem in the same domain."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The problem statement (or the previous simplification) to simplify")),
	)
	s.mcpServer.AddTool(simplifyTool, s.handleSimplify)

	titleTool := mcp.NewTool("generate_title",
		mcp.WithDescription("Generate a very short (2-3 word) title for a problem statement."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The problem statement")),
	)
	s.mcpServer.AddTool(titleTool, s.handleGenerateTitle)
}

func (s *Server) handleSimplify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	simplified, err := s.relay.Simplify(ctx, prompt)
	if err != nil {
		s.logger.Warn("MCP simplify failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(simplified), nil
}

func (s *Server) handleGenerateTitle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.relay.GenerateTitle(ctx, prompt)), nil
}
