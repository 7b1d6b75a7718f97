// Package header provides header handling for the planora chat relay.
//
// The relay sits between a browser or CLI client and the hosted model:
//
//	Client <--> Relay <--> Upstream Model Provider
//
// Client headers are never forwarded upstream; the relay speaks to the
// provider with its own credential. Upstream response headers are not copied
// back either, the relay sets its own streaming and CORS headers.
package header

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const (
	allowOrigin  = "*"
	allowHeaders = "authorization, x-client-info, apikey, content-type"

	// ContentTypeEventStream is the content type of a relayed answer.
	ContentTypeEventStream = "text/event-stream"
)

// Handler manages headers on both legs of the relay.
type Handler struct{}

// NewHandler creates a new header Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// SetCORSHeaders sets the permissive cross-origin headers carried by every
// relay response, errors and pre-flight answers included.
func (h *Handler) SetCORSHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, allowOrigin)
	c.Set(fiber.HeaderAccessControlAllowHeaders, allowHeaders)
}

// SetStreamHeaders marks the client response as a server-sent event stream.
func (h *Handler) SetStreamHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, ContentTypeEventStream)
	c.Set(fiber.HeaderCacheControl, "no-cache")
}

// SetUpstreamRequestHeaders sets the headers of the upstream chat completion
// call. Accept-Encoding is left to Go's http.Transport so that it adds its
// own "gzip" and transparently decompresses the stream.
func (h *Handler) SetUpstreamRequestHeaders(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", ContentTypeEventStream)
}
