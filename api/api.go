package api

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"

	"github.com/planora/planora/api/mcp"
	"github.com/planora/planora/pkg/catalog"
)

// Server is the API server for the planora event catalog.
type Server struct {
	config Config
	store  catalog.Store
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server.
// The store is injected to allow sharing with other components
// (e.g., the relay when both run in one process).
func NewServer(config Config, store catalog.Store, logger *slog.Logger) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		store:  store,
		logger: logger,
		app:    app,
	}

	app.Use(compress.New())
	if config.Metrics != nil {
		app.Use(s.countRequests)
		app.Get("/metrics", adaptor.HTTPHandler(config.Metrics.Handler()))
	}

	app.Get("/ping", s.handlePing)
	app.Get("/events", s.handleListEvents)
	app.Get("/events/:id", s.handleGetEvent)

	if !config.DisableMCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Store:  store,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create MCP server: %w", err)
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the API server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting API server", "listen", listener.Addr().String())
	return s.app.Listener(listener)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// countRequests records a request count per matched route and status class.
func (s *Server) countRequests(c *fiber.Ctx) error {
	err := c.Next()

	status := c.Response().StatusCode()
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	}
	s.config.Metrics.APIRequest(c.Route().Path, strconv.Itoa(status/100)+"xx")
	return err
}
