package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a render ID is not in the archive.
var ErrNotFound = errors.New("render not found")

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReadRender returns the render with the given ID, including its text.
func (s *Store) ReadRender(ctx context.Context, id string) (Render, error) {
	return readRender(ctx, s.db, id)
}

func readRender(ctx context.Context, q queryer, id string) (Render, error) {
	var r Render
	err := q.QueryRowContext(ctx, `
		SELECT id, seq, source, content_hash, part_count, statement_count, text
		FROM renders
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Seq, &r.Source, &r.ContentHash, &r.PartCount, &r.StatementCount, &r.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return Render{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Render{}, fmt.Errorf("read render: %w", err)
	}
	return r, nil
}

// ReadRenders lists archived renders without their text, oldest first.
// A limit of 0 or less returns every row.
//
// Returns an empty slice (not nil) if the archive is empty.
func (s *Store) ReadRenders(ctx context.Context, limit int) ([]Render, error) {
	query := `
		SELECT id, seq, source, content_hash, part_count, statement_count
		FROM renders
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.listRenders(ctx, query, args...)
}

// FindByHash lists renders whose text hashes to contentHash, oldest first.
func (s *Store) FindByHash(ctx context.Context, contentHash string) ([]Render, error) {
	return s.listRenders(ctx, `
		SELECT id, seq, source, content_hash, part_count, statement_count
		FROM renders
		WHERE content_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, contentHash)
}

func (s *Store) listRenders(ctx context.Context, query string, args ...any) ([]Render, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query renders: %w", err)
	}
	defer rows.Close()

	renders := []Render{}
	for rows.Next() {
		var r Render
		if err := rows.Scan(&r.ID, &r.Seq, &r.Source, &r.ContentHash, &r.PartCount, &r.StatementCount); err != nil {
			return nil, fmt.Errorf("scan render: %w", err)
		}
		renders = append(renders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate renders: %w", err)
	}
	return renders, nil
}
