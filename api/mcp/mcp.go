// Package mcp provides an MCP (Model Context Protocol) server exposing the
// planora event catalog to agents.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/utils"
)

type Config struct {
	// Store is the event catalog the tools read from.
	Store catalog.Store

	// Logger is the configured logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the catalog tools.
func NewServer(c Config) (*Server, error) {
	if c.Store == nil {
		return nil, errors.New("catalog store is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "planora",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listEventsToolName,
		Description: listEventsDescription,
	}, s.handleListEvents)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        getEventToolName,
		Description: getEventDescription,
	}, s.handleGetEvent)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
