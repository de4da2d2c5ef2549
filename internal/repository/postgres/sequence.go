package postgres

import (
	"context"
	"database/sql"

	"rentmarket-backend/internal/repository"
)

type sequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) repository.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next increments the per-document-type counter atomically and returns the
// new value. The upsert seeds the row on first use; counting existing
// documents would race and drift under deletions.
func (r *sequenceRepository) Next(ctx context.Context, docType string) (int64, error) {
	var value int64
	query := `INSERT INTO document_sequences (doc_type, next_value) VALUES ($1, 1)
	          ON CONFLICT (doc_type) DO UPDATE SET next_value = document_sequences.next_value + 1
	          RETURNING next_value`
	err := r.db.QueryRowContext(ctx, query, docType).Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}
