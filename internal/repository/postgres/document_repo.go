package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"eventpass/internal/domain"
)

type documentRepository struct {
	DB *sql.DB
}

// NewDocumentRepository stores documents as JSONB rows keyed by (collection, id).
func NewDocumentRepository(db *sql.DB) domain.DocumentRepository {
	return &documentRepository{DB: db}
}

func (r *documentRepository) Get(ctx context.Context, collection, id string) (domain.Document, error) {
	var raw []byte
	err := r.DB.QueryRowContext(ctx, `SELECT data FROM documents WHERE collection = $1 AND id = $2`, collection, id).Scan(&raw)
	if err != nil {
		return nil, mapError(err)
	}
	doc := domain.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Set upserts the document. With merge the stored object is combined with doc using the
// jsonb || operator, so top-level keys in doc win and absent keys are kept.
func (r *documentRepository) Set(ctx context.Context, collection, id string, doc domain.Document, merge bool) error {
	if doc == nil {
		doc = domain.Document{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}
	update := `data = EXCLUDED.data`
	if merge {
		update = `data = documents.data || EXCLUDED.data`
	}
	query := `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, id) DO UPDATE SET ` + update + `, updated_at = now()
	`
	_, err = r.DB.ExecContext(ctx, query, collection, id, raw)
	return err
}
