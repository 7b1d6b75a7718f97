// Package catalog holds the event catalog: the records read from the event
// store, the summaries used to ground the chat assistant, and the Store
// interface implemented by each storage backend.
package catalog

import (
	"context"
	"sort"
	"strings"
)

// Event is an event record as read from the store, joined with its category.
type Event struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"short_description,omitempty"`
	Date             string  `json:"date"`           // YYYY-MM-DD
	Time             string  `json:"time,omitempty"` // HH:MM[:SS]
	Location         string  `json:"location,omitempty"`
	Address          string  `json:"address,omitempty"`
	Price            float64 `json:"price"`
	CategoryID       string  `json:"category_id,omitempty"`
	CategoryName     string  `json:"category_name,omitempty"`
	CategorySlug     string  `json:"category_slug,omitempty"`
	Featured         bool    `json:"featured"`
}

// Category is an event category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Store reads the event catalog.
type Store interface {
	// ListEventsWithCategory returns every event joined with its category
	// display name, ordered by date ascending, then time, then id.
	ListEventsWithCategory(ctx context.Context) ([]Event, error)

	// Close releases any resources held by the store.
	Close() error
}

// Seeder writes catalog records. Writes are upserts keyed by id.
type Seeder interface {
	UpsertCategories(ctx context.Context, categories []Category) error
	UpsertEvents(ctx context.Context, events []Event) error
}

// SortEvents orders events by date, time, then id.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
}

// Find returns the event with the given id. Ids compare case-insensitively.
func Find(events []Event, id string) (Event, bool) {
	for _, e := range events {
		if strings.EqualFold(e.ID, id) {
			return e, true
		}
	}
	return Event{}, false
}
