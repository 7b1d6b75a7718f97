// Package catalogutils selects a catalog store implementation from a store URL.
package catalogutils

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/catalog/inmemory"
	"github.com/planora/planora/pkg/catalog/postgres"
	"github.com/planora/planora/pkg/catalog/rest"
	"github.com/planora/planora/pkg/catalog/sqlite"
)

// MemoryURL selects an in-memory store seeded with the demo catalog.
const MemoryURL = "memory://"

type NewStoreOpts struct {
	// URL selects the driver:
	//   postgres:// or postgresql://  PostgreSQL
	//   http:// or https://           hosted REST data API
	//   sqlite://<path> or a path     SQLite
	//   memory://                     in-memory demo catalog
	URL string

	// ServiceKey is the REST data API credential.
	ServiceKey string

	// Now dates the demo catalog. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Store is a catalog store that can also be seeded. The REST driver is
// read-only and reports Seeder as nil.
type Store struct {
	catalog.Store
	Seeder catalog.Seeder
}

// NewStore opens the catalog store named by o.URL.
func NewStore(ctx context.Context, o *NewStoreOpts) (*Store, error) {
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	u := strings.TrimSpace(o.URL)
	switch {
	case u == "" || u == MemoryURL:
		s := inmemory.NewStore()
		now := time.Now
		if o.Now != nil {
			now = o.Now
		}
		if err := s.UpsertCategories(ctx, catalog.DemoCategories()); err != nil {
			return nil, err
		}
		if err := s.UpsertEvents(ctx, catalog.DemoEvents(now())); err != nil {
			return nil, err
		}
		log.Info("using in-memory demo catalog")
		return &Store{Store: s, Seeder: s}, nil

	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		s, err := postgres.NewStore(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL store: %w", err)
		}
		log.Info("using PostgreSQL catalog")
		return &Store{Store: s, Seeder: s}, nil

	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		s, err := rest.NewStore(rest.Config{URL: u, ServiceKey: o.ServiceKey})
		if err != nil {
			return nil, fmt.Errorf("failed to create REST store: %w", err)
		}
		log.Info("using REST data API catalog", "url", u)
		return &Store{Store: s}, nil

	case strings.Contains(u, "://") && !strings.HasPrefix(u, "sqlite://"):
		return nil, fmt.Errorf("unsupported store URL: %s", u)

	default:
		path := strings.TrimPrefix(u, "sqlite://")
		s, err := sqlite.NewStore(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite store: %w", err)
		}
		log.Info("using SQLite catalog", "path", path)
		return &Store{Store: s, Seeder: s}, nil
	}
}
