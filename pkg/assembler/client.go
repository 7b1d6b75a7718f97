package assembler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/llm"
)

// defaultRelayError is shown when the relay fails without an error body.
const defaultRelayError = "Failed to get response"

// ClientConfig configures a Client.
type ClientConfig struct {
	// RelayURL is the chat relay base URL (e.g., "http://localhost:8080").
	RelayURL string

	// APIURL is the planora API server base URL used to load the event list.
	APIURL string

	// Key is an optional caller credential sent as the apikey header and
	// bearer token. The relay does not inspect it.
	Key string

	// HTTPClient overrides the default client. Streams are long lived, so
	// it should not carry a short overall timeout.
	HTTPClient *http.Client
}

// Client talks to the chat relay and the API server.
type Client struct {
	relayURL   string
	apiURL     string
	key        string
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		relayURL:   strings.TrimSuffix(cfg.RelayURL, "/"),
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		key:        cfg.Key,
		httpClient: hc,
	}
}

// Stream posts the transcript to the relay and returns the streaming body.
// A non-200 reply is returned as a *RelayError; a transport failure as a
// *StreamError. The caller must close the returned body.
func (c *Client) Stream(ctx context.Context, transcript llm.Transcript) (io.ReadCloser, error) {
	body, err := json.Marshal(llm.ChatRequest{Messages: transcript})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL+llm.ChatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &StreamError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readRelayError(resp)
	}

	return resp.Body, nil
}

// Events loads the event list references are resolved against.
func (c *Client) Events(ctx context.Context) ([]catalog.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/events", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readRelayError(resp)
	}

	var events []catalog.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}
	return events, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.key == "" {
		return
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
}

func readRelayError(resp *http.Response) error {
	msg := defaultRelayError
	var er llm.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if json.Unmarshal(data, &er) == nil && er.Error != "" {
		msg = er.Error
	}
	return &RelayError{Status: resp.StatusCode, Message: msg}
}
