package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/issuefilter/internal/parser"
)

// ErrNotFound is returned when a named panel does not exist.
var ErrNotFound = errors.New("not found")

// Panel is a saved, named filter. Filter is always the canonical
// serialization of a parsed expression.
type Panel struct {
	ID        string
	Name      string
	Filter    string
	Seq       int64
	CreatedAt string
	UpdatedAt string
}

// SavePanel stores filterText under name, replacing the filter of an
// existing panel with that name while keeping its id and position. The
// text is parsed first: an invalid filter is refused with the parser's
// *parser.ParseError and nothing is written.
func (s *Store) SavePanel(ctx context.Context, name, filterText string) (Panel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Panel{}, fmt.Errorf("save panel: name is required")
	}
	canonical, err := parser.Canonical(filterText)
	if err != nil {
		return Panel{}, fmt.Errorf("save panel %q: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Panel{}, fmt.Errorf("save panel %q: %w", name, err)
	}
	defer tx.Rollback()

	now := s.timestamp()
	existing, err := scanPanel(tx.QueryRowContext(ctx, `
		SELECT id, name, filter, seq, created_at, updated_at
		FROM panels WHERE name = ?
	`, name))
	switch {
	case err == nil:
		existing.Filter, existing.UpdatedAt = canonical, now
		if _, err := tx.ExecContext(ctx,
			`UPDATE panels SET filter = ?, updated_at = ? WHERE id = ?`,
			canonical, now, existing.ID,
		); err != nil {
			return Panel{}, fmt.Errorf("save panel %q: %w", name, err)
		}
	case errors.Is(err, ErrNotFound):
		id, err := uuid.NewV7()
		if err != nil {
			return Panel{}, fmt.Errorf("save panel %q: generate id: %w", name, err)
		}
		var seq int64
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM panels`).Scan(&seq); err != nil {
			return Panel{}, fmt.Errorf("save panel %q: %w", name, err)
		}
		existing = Panel{ID: id.String(), Name: name, Filter: canonical, Seq: seq, CreatedAt: now, UpdatedAt: now}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO panels (id, name, filter, seq, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, existing.ID, existing.Name, existing.Filter, existing.Seq, existing.CreatedAt, existing.UpdatedAt); err != nil {
			return Panel{}, fmt.Errorf("save panel %q: %w", name, err)
		}
	default:
		return Panel{}, fmt.Errorf("save panel %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return Panel{}, fmt.Errorf("save panel %q: %w", name, err)
	}
	slog.Debug("panel saved", "name", name, "filter", canonical)
	return existing, nil
}

// GetPanel returns the panel called name, or an error wrapping ErrNotFound.
func (s *Store) GetPanel(ctx context.Context, name string) (Panel, error) {
	p, err := scanPanel(s.db.QueryRowContext(ctx, `
		SELECT id, name, filter, seq, created_at, updated_at
		FROM panels WHERE name = ?
	`, name))
	if err != nil {
		return Panel{}, fmt.Errorf("get panel %q: %w", name, err)
	}
	return p, nil
}

// ListPanels returns every panel in the order they were first saved.
func (s *Store) ListPanels(ctx context.Context) ([]Panel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, filter, seq, created_at, updated_at
		FROM panels
		ORDER BY seq ASC, id ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}
	defer rows.Close()

	var panels []Panel
	for rows.Next() {
		var p Panel
		if err := rows.Scan(&p.ID, &p.Name, &p.Filter, &p.Seq, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list panels: %w", err)
		}
		panels = append(panels, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}
	return panels, nil
}

// DeletePanel removes the panel called name, or returns an error wrapping
// ErrNotFound.
func (s *Store) DeletePanel(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM panels WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete panel %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete panel %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete panel %q: %w", name, ErrNotFound)
	}
	slog.Debug("panel deleted", "name", name)
	return nil
}

func scanPanel(row *sql.Row) (Panel, error) {
	var p Panel
	err := row.Scan(&p.ID, &p.Name, &p.Filter, &p.Seq, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Panel{}, ErrNotFound
	}
	return p, err
}
