package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgExecutor is the subset of *pgxpool.Pool used by PgHistoryRepo.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgHistoryRepo keeps the history document as a single JSONB row, so the
// rewrite-wholesale semantics of the file repo carry over unchanged.
type PgHistoryRepo struct {
	db pgExecutor
}

func NewPgHistoryRepo(db pgExecutor) *PgHistoryRepo {
	return &PgHistoryRepo{db: db}
}

// EnsureSchema creates the document table if it does not exist.
func (r *PgHistoryRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS channel_history_document (
			id         SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create channel_history_document: %w", err)
	}
	return nil
}

// Load returns the stored document, or an empty one when no row exists.
func (r *PgHistoryRepo) Load(ctx context.Context) (HistoryDocument, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `
		SELECT document FROM channel_history_document WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return HistoryDocument{}, nil
	}
	if err != nil {
		return HistoryDocument{}, fmt.Errorf("load history document: %w", err)
	}
	return decodeDocument(raw)
}

// Save upserts the single document row.
func (r *PgHistoryRepo) Save(ctx context.Context, doc HistoryDocument) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO channel_history_document (id, document, updated_at)
		VALUES (1, $1::jsonb, NOW())
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document, updated_at = NOW()`,
		string(data))
	if err != nil {
		return fmt.Errorf("save history document: %w", err)
	}
	return nil
}
