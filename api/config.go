// Package api provides the HTTP API server for browsing the event catalog.
package api

import "github.com/planora/planora/pkg/metrics"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// Metrics enables GET /metrics and per-route request counts. Optional.
	Metrics *metrics.Metrics

	// DisableMCP turns off the /mcp endpoint.
	DisableMCP bool
}
