// Package rest implements catalog.Store against a hosted PostgREST data API
// (the backend-as-a-service REST surface over the events tables).
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/planora/planora/pkg/catalog"
)

const (
	// restPath is the PostgREST mount point under the data store URL.
	restPath = "/rest/v1"

	// eventsSelect embeds the category display name and slug in each event.
	eventsSelect = "*,category:categories(name,slug)"

	eventsOrder = "date.asc,time.asc,id.asc"
)

// Config holds configuration for the REST store.
type Config struct {
	// URL is the data store base URL (e.g., "https://xyz.supabase.co").
	URL string

	// ServiceKey is sent as both the apikey header and the bearer token.
	ServiceKey string

	// HTTPClient overrides the default client. Optional.
	HTTPClient *http.Client
}

// Store reads the catalog over HTTP.
type Store struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewStore creates a REST-backed catalog store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("rest store: URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, errors.New("rest store: service key is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Store{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: client,
	}, nil
}

// ListEventsWithCategory fetches every event with its embedded category.
func (s *Store) ListEventsWithCategory(ctx context.Context) ([]catalog.Event, error) {
	q := url.Values{}
	q.Set("select", eventsSelect)
	q.Set("order", eventsOrder)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+restPath+"/events?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			return nil, fmt.Errorf("data store returned status %d: %s", resp.StatusCode, eb.Message)
		}
		return nil, fmt.Errorf("data store returned status %d: %s", resp.StatusCode, string(body))
	}

	var rows []eventRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	events := make([]catalog.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.toEvent())
	}
	return events, nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (r eventRow) toEvent() catalog.Event {
	e := catalog.Event{
		ID:               r.ID,
		Title:            r.Title,
		Description:      deref(r.Description),
		ShortDescription: deref(r.ShortDescription),
		Date:             r.Date,
		Time:             deref(r.Time),
		Location:         deref(r.Location),
		Address:          deref(r.Address),
		CategoryID:       deref(r.CategoryID),
	}
	if r.Price != nil {
		e.Price = *r.Price
	}
	if r.Featured != nil {
		e.Featured = *r.Featured
	}
	if r.Category != nil {
		e.CategoryName = r.Category.Name
		e.CategorySlug = r.Category.Slug
	}
	return e
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ catalog.Store = (*Store)(nil)
