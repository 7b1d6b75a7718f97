// Package sqlite provides a SQLite-backed catalog store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	_ "github.com/mattn/go-sqlite3"

	"github.com/planora/planora/pkg/catalog/sqlstore"
)

// Store implements catalog.Store and catalog.Seeder using SQLite.
type Store struct {
	*sqlstore.Store
}

// NewStore opens the SQLite database at dbPath and ensures the catalog
// tables exist. The dbPath can be a file path or ":memory:".
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A :memory: database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := sqlstore.New(db, dialect.SQLite)
	if err := s.CreateSchema(ctx); err != nil {
		s.Close()
		return nil, err
	}

	return &Store{Store: s}, nil
}
