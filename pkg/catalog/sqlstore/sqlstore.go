// Package sqlstore implements catalog.Store and catalog.Seeder over a SQL
// database using the ent dialect builder. It is database-agnostic and is
// embedded by the postgres and sqlite drivers.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/planora/planora/pkg/catalog"
)

const (
	eventsTable     = "events"
	categoriesTable = "categories"
)

// Store provides catalog operations over an ent SQL driver.
type Store struct {
	Driver  *entsql.Driver
	Dialect string
}

// New wraps db for the given ent dialect (dialect.Postgres or dialect.SQLite).
func New(db *sql.DB, d string) *Store {
	return &Store{
		Driver:  entsql.OpenDB(d, db),
		Dialect: d,
	}
}

// CreateSchema creates the categories and events tables when missing.
// Existing tables are left untouched.
func (s *Store) CreateSchema(ctx context.Context) error {
	b := entsql.Dialect(s.Dialect)

	dateType, timeType, priceType := "TEXT", "TEXT", "REAL"
	if s.Dialect == dialect.Postgres {
		dateType, timeType, priceType = "DATE", "TIME", "NUMERIC(10,2)"
	}

	tables := []struct {
		name    string
		columns []*entsql.ColumnBuilder
	}{
		{
			name: categoriesTable,
			columns: []*entsql.ColumnBuilder{
				b.Column("id").Type("TEXT PRIMARY KEY"),
				b.Column("name").Type("TEXT NOT NULL"),
				b.Column("slug").Type("TEXT NOT NULL"),
			},
		},
		{
			name: eventsTable,
			columns: []*entsql.ColumnBuilder{
				b.Column("id").Type("TEXT PRIMARY KEY"),
				b.Column("title").Type("TEXT NOT NULL"),
				b.Column("description").Type("TEXT NOT NULL DEFAULT ''"),
				b.Column("short_description").Type("TEXT"),
				b.Column("date").Type(dateType + " NOT NULL"),
				b.Column("time").Type(timeType),
				b.Column("location").Type("TEXT"),
				b.Column("address").Type("TEXT"),
				b.Column("price").Type(priceType + " NOT NULL DEFAULT 0"),
				b.Column("category_id").Type("TEXT"),
				b.Column("featured").Type("BOOLEAN NOT NULL DEFAULT FALSE"),
			},
		},
	}

	for _, t := range tables {
		query := b.String(func(sb *entsql.Builder) {
			sb.WriteString("CREATE TABLE IF NOT EXISTS ").Ident(t.name).Pad().Wrap(func(cb *entsql.Builder) {
				cb.JoinComma(queriers(t.columns)...)
			})
		})
		if err := s.Driver.Exec(ctx, query, []any{}, nil); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// ListEventsWithCategory returns every event left-joined with its category,
// ordered by date, time and id.
func (s *Store) ListEventsWithCategory(ctx context.Context) ([]catalog.Event, error) {
	b := entsql.Dialect(s.Dialect)
	// Both sides carry explicit aliases so the column references match the
	// names used in FROM and JOIN.
	e := b.Table(eventsTable).As("e")
	c := b.Table(categoriesTable).As("c")

	sel := b.Select(
		e.C("id"),
		e.C("title"),
		e.C("description"),
		e.C("short_description"),
		entsql.As(castText(e.C("date")), "event_date"),
		entsql.As(castText(e.C("time")), "event_time"),
		e.C("location"),
		e.C("address"),
		e.C("price"),
		e.C("category_id"),
		e.C("featured"),
		entsql.As(c.C("name"), "category_name"),
		entsql.As(c.C("slug"), "category_slug"),
	).
		From(e).
		LeftJoin(c).On(e.C("category_id"), c.C("id")).
		OrderBy(e.C("date"), e.C("time"), e.C("id"))

	query, args := sel.Query()

	var rows entsql.Rows
	if err := s.Driver.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []catalog.Event{}
	for rows.Next() {
		var (
			ev                                   catalog.Event
			short, evTime, location, address     sql.NullString
			categoryID, categoryName, categorySl sql.NullString
			price                                sql.NullFloat64
		)
		if err := rows.Scan(
			&ev.ID,
			&ev.Title,
			&ev.Description,
			&short,
			&ev.Date,
			&evTime,
			&location,
			&address,
			&price,
			&categoryID,
			&ev.Featured,
			&categoryName,
			&categorySl,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		ev.ShortDescription = short.String
		ev.Time = evTime.String
		ev.Location = location.String
		ev.Address = address.String
		ev.Price = price.Float64
		ev.CategoryID = categoryID.String
		ev.CategoryName = categoryName.String
		ev.CategorySlug = categorySl.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}

// UpsertCategories inserts categories, replacing existing rows with the same id.
func (s *Store) UpsertCategories(ctx context.Context, categories []catalog.Category) error {
	if len(categories) == 0 {
		return nil
	}

	ins := entsql.Dialect(s.Dialect).Insert(categoriesTable).Columns("id", "name", "slug")
	for _, c := range categories {
		if c.ID == "" {
			return errors.New("cannot store category without id")
		}
		ins.Values(c.ID, c.Name, c.Slug)
	}
	ins.OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())

	query, args := ins.Query()
	if err := s.Driver.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("failed to upsert categories: %w", err)
	}
	return nil
}

// UpsertEvents inserts events, replacing existing rows with the same id.
func (s *Store) UpsertEvents(ctx context.Context, events []catalog.Event) error {
	if len(events) == 0 {
		return nil
	}

	ins := entsql.Dialect(s.Dialect).Insert(eventsTable).Columns(
		"id", "title", "description", "short_description", "date", "time",
		"location", "address", "price", "category_id", "featured",
	)
	for _, e := range events {
		if e.ID == "" {
			return errors.New("cannot store event without id")
		}
		ins.Values(
			e.ID,
			e.Title,
			e.Description,
			nullable(e.ShortDescription),
			e.Date,
			nullable(e.Time),
			nullable(e.Location),
			nullable(e.Address),
			e.Price,
			nullable(e.CategoryID),
			e.Featured,
		)
	}
	ins.OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())

	query, args := ins.Query()
	if err := s.Driver.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("failed to upsert events: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.Driver.Close()
}

// castText renders a date or time column as text in both dialects.
func castText(col string) string {
	return "CAST(" + col + " AS TEXT)"
}

func queriers(columns []*entsql.ColumnBuilder) []entsql.Querier {
	qs := make([]entsql.Querier, len(columns))
	for i, col := range columns {
		qs[i] = col
	}
	return qs
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
