package store

import (
	"context"
	"fmt"

	"github.com/roach88/csgen/internal/ir"
)

// Render is one archived score render.
type Render struct {
	ID             string `json:"id"`
	Seq            int64  `json:"seq"`
	Source         string `json:"source"`
	ContentHash    string `json:"content_hash"`
	PartCount      int    `json:"part_count"`
	StatementCount int    `json:"statement_count"`
	Text           string `json:"text,omitempty"`
}

// NewRender builds a Render for text, filling in the content hash.
// ID and Seq are assigned by WriteRender when left empty.
func NewRender(source, text string, parts, statements int) Render {
	return Render{
		Source:         source,
		ContentHash:    ir.ContentHash(text),
		PartCount:      parts,
		StatementCount: statements,
		Text:           text,
	}
}

// WriteRender appends r to the archive and returns it with ID and Seq set.
//
// An empty ID is filled from ids; an empty content hash is computed from
// the text. Seq is always assigned by the store as one more than the
// current maximum, inside the same transaction as the insert.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - rewriting an existing ID
// returns the stored row unchanged.
func (s *Store) WriteRender(ctx context.Context, r Render, ids IDGenerator) (Render, error) {
	if r.ID == "" {
		r.ID = ids.Generate()
	}
	if r.ContentHash == "" {
		r.ContentHash = ir.ContentHash(r.Text)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Render{}, fmt.Errorf("write render: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM renders`).Scan(&seq); err != nil {
		return Render{}, fmt.Errorf("write render: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO renders
		(id, seq, source, content_hash, part_count, statement_count, text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.ID,
		seq,
		r.Source,
		r.ContentHash,
		r.PartCount,
		r.StatementCount,
		r.Text,
	)
	if err != nil {
		return Render{}, fmt.Errorf("write render: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return Render{}, fmt.Errorf("write render: rows affected: %w", err)
	}
	if rows == 0 {
		existing, err := readRender(ctx, tx, r.ID)
		if err != nil {
			return Render{}, fmt.Errorf("write render: %w", err)
		}
		return existing, tx.Commit()
	}

	if err := tx.Commit(); err != nil {
		return Render{}, fmt.Errorf("write render: commit: %w", err)
	}

	r.Seq = seq
	return r, nil
}
