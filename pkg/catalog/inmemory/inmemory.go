// Package inmemory provides a map-backed catalog store.
package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/planora/planora/pkg/catalog"
)

// Store implements catalog.Store and catalog.Seeder using in-memory maps.
type Store struct {
	mu         sync.RWMutex
	events     map[string]catalog.Event
	categories map[string]catalog.Category
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		events:     make(map[string]catalog.Event),
		categories: make(map[string]catalog.Category),
	}
}

// ListEventsWithCategory returns every event joined with its category in
// date, time, id order. Category fields come from the stored categories;
// events pointing at a missing category carry no category name.
func (s *Store) ListEventsWithCategory(_ context.Context) ([]catalog.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]catalog.Event, 0, len(s.events))
	for _, e := range s.events {
		e.CategoryName, e.CategorySlug = "", ""
		if c, ok := s.categories[e.CategoryID]; ok && e.CategoryID != "" {
			e.CategoryName = c.Name
			e.CategorySlug = c.Slug
		}
		events = append(events, e)
	}

	catalog.SortEvents(events)
	return events, nil
}

// UpsertCategories stores categories keyed by id.
func (s *Store) UpsertCategories(_ context.Context, categories []catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range categories {
		if c.ID == "" {
			return errors.New("cannot store category without id")
		}
		s.categories[c.ID] = c
	}
	return nil
}

// UpsertEvents stores events keyed by id.
func (s *Store) UpsertEvents(_ context.Context, events []catalog.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if e.ID == "" {
			return errors.New("cannot store event without id")
		}
		s.events[e.ID] = e
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
