package catalog

import (
	"context"

	"github.com/planora/planora/pkg/utils"
)

const (
	// descriptionFallbackLen is how many characters of the long description
	// stand in for a missing short description.
	descriptionFallbackLen = 200

	// Uncategorized labels events with no category.
	Uncategorized = "Uncategorized"
)

// EventSummary is the projection of an event handed to the model as
// grounding data. It is derived per request and never cached.
type EventSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Location    string  `json:"location"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

// Fetcher reads the full catalog from a Store and projects it to summaries.
type Fetcher struct {
	store Store
}

func NewFetcher(store Store) *Fetcher {
	return &Fetcher{store: store}
}

// Fetch returns a summary for every event in the catalog in store order.
// Any store failure is returned as a *GroundingError.
func (f *Fetcher) Fetch(ctx context.Context) ([]EventSummary, error) {
	events, err := f.store.ListEventsWithCategory(ctx)
	if err != nil {
		return nil, &GroundingError{Err: err}
	}

	summaries := make([]EventSummary, 0, len(events))
	for _, e := range events {
		summaries = append(summaries, Summarize(e))
	}
	return summaries, nil
}

// Summarize projects an event to its grounding summary.
func Summarize(e Event) EventSummary {
	desc := e.ShortDescription
	if desc == "" {
		desc = utils.Prefix(e.Description, descriptionFallbackLen)
	}

	category := e.CategoryName
	if category == "" {
		category = Uncategorized
	}

	return EventSummary{
		ID:          e.ID,
		Title:       e.Title,
		Description: desc,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Category:    category,
		Price:       e.Price,
	}
}
