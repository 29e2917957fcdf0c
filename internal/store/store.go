// Package store persists saved enclosure designs in SQLite so they can be
// shared by ID.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/caraudioevents/subdesigner/pkg/spec"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when no saved design has the requested ID.
var ErrNotFound = errors.New("design not found")

// Saved is one stored design document.
type Saved struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Design    *spec.Design `json:"design"`
	CreatedAt time.Time    `json:"created_at"`
}

// Summary is the listing row for a saved design.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists designs in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save stores a design under a fresh ID.
func (s *Store) Save(ctx context.Context, d *spec.Design) (*Saved, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("design is required")
	}
	doc, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode design: %w", err)
	}

	saved := &Saved{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(d.Name),
		Design:    d,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO designs (id, name, document, created_at) VALUES (?, ?, ?, ?)`,
		saved.ID, saved.Name, string(doc), toMillis(saved.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("save design: %w", err)
	}
	return saved, nil
}

// Get returns the design stored under id.
func (s *Store) Get(ctx context.Context, id string) (*Saved, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var (
		saved   Saved
		doc     string
		created int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, document, created_at FROM designs WHERE id = ?`, id,
	).Scan(&saved.ID, &saved.Name, &doc, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get design: %w", err)
	}

	d, err := spec.Parse([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("decode design %s: %w", id, err)
	}
	saved.Design = d
	saved.CreatedAt = fromMillis(created)
	return &saved, nil
}

// List returns saved designs, newest first, at most limit rows.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, created_at FROM designs ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			row     Summary
			created int64
		)
		if err := rows.Scan(&row.ID, &row.Name, &created); err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		row.CreatedAt = fromMillis(created)
		out = append(out, row)
	}
	return out, rows.Err()
}
