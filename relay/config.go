package relay

import (
	"time"

	"github.com/planora/planora/pkg/eventstream"
	"github.com/planora/planora/pkg/metrics"
)

// Config is the relay server configuration. It is built once at startup;
// nothing in the request path reads the environment.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// UpstreamURL is the OpenAI-compatible base URL of the hosted model
	// (e.g., "https://ai.gateway.lovable.dev/v1"). "/chat/completions" is
	// appended to it.
	UpstreamURL string

	// Model is the upstream model identifier.
	Model string

	// APIKey is the upstream credential. When empty every chat request fails
	// with a *ConfigurationError.
	APIKey string

	// HeaderTimeout bounds the wait for the upstream response headers.
	// Zero means no limit.
	HeaderTimeout time.Duration

	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables inbound rate limiting.
	RateLimit float64

	// RateBurst is the per client IP burst size.
	RateBurst int

	// Publisher is an optional sink for chat telemetry events.
	// If nil, events are not published.
	Publisher eventstream.Publisher

	// Metrics is optional Prometheus instrumentation.
	Metrics *metrics.Metrics

	// Now returns the current time, used for the date line in the prompt.
	// Defaults to time.Now.
	Now func() time.Time
}
