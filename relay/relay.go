// Package relay provides the grounded chat relay: it accepts a conversation
// transcript, grounds it in the current event catalog, and streams the
// hosted model's answer back to the caller byte for byte.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/config"
	"github.com/planora/planora/pkg/llm"
	"github.com/planora/planora/pkg/metrics"
	"github.com/planora/planora/pkg/prompt"
	"github.com/planora/planora/relay/header"
	"github.com/planora/planora/relay/worker"
)

const (
	chatCompletionsPath = "/chat/completions"
	healthPath          = "/healthz"

	// maxUpstreamErrorBody bounds how much of a failed upstream body is read
	// for logging.
	maxUpstreamErrorBody = 64 * 1024
)

// Relay is the stateless chat relay. Each request reads the catalog afresh,
// builds the grounding prompt, and pipes the upstream stream to the client.
type Relay struct {
	config        Config
	fetcher       *catalog.Fetcher
	workerPool    *worker.Pool
	logger        *slog.Logger
	httpClient    *http.Client
	server        *fiber.App
	headerHandler *header.Handler
	limiter       *ipLimiter
	metrics       *metrics.Metrics
}

// New creates a new Relay reading grounding data from store.
func New(config Config, store catalog.Store, logger *slog.Logger) (*Relay, error) {
	if store == nil {
		return nil, errors.New("catalog store is required")
	}
	if config.UpstreamURL == "" {
		return nil, errors.New("upstream URL is required")
	}
	if config.Model == "" {
		return nil, errors.New("model is required")
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	r := &Relay{
		config:        config,
		fetcher:       catalog.NewFetcher(store),
		logger:        logger,
		server:        app,
		headerHandler: header.NewHandler(),
		limiter:       newIPLimiter(config.RateLimit, config.RateBurst),
		metrics:       config.Metrics,
		httpClient: &http.Client{
			// No overall timeout: answers stream for as long as the model
			// writes. Only the wait for response headers is bounded.
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: config.HeaderTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
			},
		},
	}

	if config.Publisher != nil {
		wp, err := worker.NewPool(&worker.Config{
			Publisher: config.Publisher,
			Metrics:   config.Metrics,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create worker pool: %w", err)
		}
		r.workerPool = wp
	}

	app.Use(func(c *fiber.Ctx) error {
		r.headerHandler.SetCORSHeaders(c)
		return c.Next()
	})
	app.Get(healthPath, r.handleHealth)
	app.Options(llm.ChatPath, r.handlePreflight)
	app.Post(llm.ChatPath, r.handleChat)

	return r, nil
}

// Run starts the relay server on the configured listening address.
func (r *Relay) Run() error {
	r.logger.Info("starting chat relay",
		"listen", r.config.ListenAddr,
		"upstream", r.config.UpstreamURL,
		"model", r.config.Model,
	)

	return r.server.Listen(r.config.ListenAddr)
}

// RunWithListener starts the relay server using the provided listener.
func (r *Relay) RunWithListener(listener net.Listener) error {
	r.logger.Info("starting chat relay",
		"listen", listener.Addr().String(),
		"upstream", r.config.UpstreamURL,
		"model", r.config.Model,
	)

	return r.server.Listener(listener)
}

// Close stops the server, then waits for queued telemetry to drain.
func (r *Relay) Close() error {
	err := r.server.Shutdown()
	if r.workerPool != nil {
		r.workerPool.Close()
	}
	return err
}

func (r *Relay) handleHealth(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// handlePreflight answers the cross-origin pre-flight probe with an empty
// body. The CORS headers are set by middleware.
func (r *Relay) handlePreflight(c *fiber.Ctx) error {
	// SendStatus would fill the empty body with the status text.
	c.Status(fiber.StatusOK)
	return nil
}

// handleChat grounds the transcript and streams the upstream answer.
func (r *Relay) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()

	if !r.limiter.allow(c.IP(), startTime) {
		r.metrics.RelayRequest(metrics.OutcomeThrottled)
		return r.fail(c, fiber.StatusTooManyRequests, msgRateLimited)
	}

	var req llm.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		r.logger.Debug("rejecting malformed chat request", "error", err)
		r.metrics.RelayRequest(metrics.OutcomeBadRequest)
		return r.fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if req.Messages == nil {
		r.metrics.RelayRequest(metrics.OutcomeBadRequest)
		return r.fail(c, fiber.StatusBadRequest, msgMissingMessages)
	}
	if err := req.Messages.Validate(); err != nil {
		r.metrics.RelayRequest(metrics.OutcomeBadRequest)
		return r.fail(c, fiber.StatusBadRequest, err.Error())
	}

	if r.config.APIKey == "" {
		err := &ConfigurationError{Setting: config.EnvAIAPIKey}
		r.logger.Error("chat relay misconfigured", "error", err)
		r.metrics.RelayRequest(metrics.OutcomeConfiguration)
		return r.fail(c, fiber.StatusInternalServerError, err.Error())
	}

	fetchStart := time.Now()
	events, err := r.fetcher.Fetch(c.UserContext())
	r.metrics.GroundingFetch(time.Since(fetchStart))
	if err != nil {
		r.logger.Error("error fetching events", "error", err)
		r.metrics.RelayRequest(metrics.OutcomeGroundingFailed)
		return r.fail(c, fiber.StatusInternalServerError, msgGroundingFailed)
	}

	system := prompt.Build(events, r.config.Now())
	upstreamReq := llm.NewUpstreamRequest(r.config.Model, system, req.Messages)

	r.logger.Debug("forwarding chat to upstream",
		"model", r.config.Model,
		"turns", len(req.Messages),
		"events", len(events),
	)

	// The stream outlives the handler: fasthttp recycles its RequestCtx once
	// the handler returns, while the pipe goroutine keeps reading upstream.
	ctx, cancel := context.WithCancel(context.Background())
	httpResp, err := r.callUpstream(ctx, upstreamReq)
	if err != nil {
		cancel()
		var upErr *UpstreamError
		if !errors.As(err, &upErr) {
			upErr = &UpstreamError{Err: err}
		}
		return r.failUpstream(c, upErr)
	}

	r.headerHandler.SetStreamHeaders(c)

	meta := streamMeta{
		startedAt:   startTime,
		turns:       len(req.Messages),
		catalogSize: len(events),
	}

	// io.Pipe + SetBodyStream gives per-chunk streaming: pw.Write blocks until
	// fasthttp's chunked body writer has read the data and flushed it to the
	// socket, so the client sees each upstream chunk as it arrives.
	pr, pw := io.Pipe()
	go r.pipeUpstream(httpResp, pw, cancel, meta)

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// callUpstream posts the chat completion request. A non-2xx reply is
// returned as an *UpstreamError after its body has been read and closed.
func (r *Relay) callUpstream(ctx context.Context, upstreamReq openai.ChatCompletionRequest) (*http.Response, error) {
	body, err := json.Marshal(upstreamReq)
	if err != nil {
		return nil, fmt.Errorf("encoding upstream request: %w", err)
	}

	url := strings.TrimSuffix(r.config.UpstreamURL, "/") + chatCompletionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating upstream request: %w", err)
	}
	r.headerHandler.SetUpstreamRequestHeaders(httpReq, r.config.APIKey)

	httpResp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		defer httpResp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxUpstreamErrorBody))
		return nil, &UpstreamError{Status: httpResp.StatusCode, Body: string(respBody)}
	}

	return httpResp, nil
}

func (r *Relay) failUpstream(c *fiber.Ctx, upErr *UpstreamError) error {
	r.logger.Error("AI gateway error",
		"status", upErr.Status,
		"kind", upErr.Kind().String(),
		"body", upErr.Body,
		"error", upErr.Err,
	)

	switch upErr.Kind() {
	case UpstreamRateLimited:
		r.metrics.RelayRequest(metrics.OutcomeRateLimited)
	case UpstreamQuotaExceeded:
		r.metrics.RelayRequest(metrics.OutcomeQuotaExceeded)
	default:
		r.metrics.RelayRequest(metrics.OutcomeUpstreamError)
	}

	status, msg := upErr.clientResponse()
	return r.fail(c, status, msg)
}

func (r *Relay) fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(llm.ErrorResponse{Error: msg})
}
