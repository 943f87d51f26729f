package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoscope/siagatani/internal/domain/catalog"
)

// PostgresProvider reads catalog rows from the catalog_rows table:
//
//	CREATE TABLE catalog_rows (
//	    key      TEXT    NOT NULL,
//	    position INTEGER NOT NULL,
//	    payload  JSONB   NOT NULL,
//	    PRIMARY KEY (key, position)
//	);
type PostgresProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresProvider constructs the provider.
func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

// Load implements catalog.Provider.
func (p *PostgresProvider) Load(ctx context.Context, key string, dst any) error {
	rows, err := p.pool.Query(ctx, `
		SELECT payload
		FROM catalog_rows
		WHERE key = $1
		ORDER BY position
	`, key)
	if err != nil {
		return err
	}
	defer rows.Close()

	var payloads [][]byte
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return err
		}
		payloads = append(payloads, payload)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(payloads) == 0 {
		return fmt.Errorf("%w: %s", catalog.ErrNotFound, key)
	}
	return decodeRows(key, payloads, dst)
}

// Seed replaces the rows of every key held by src. Used to bootstrap an empty database.
func (p *PostgresProvider) Seed(ctx context.Context, src *MemoryProvider) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, key := range src.Keys() {
		var rows []map[string]any
		if err := src.Load(ctx, key, &rows); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM catalog_rows WHERE key = $1`, key); err != nil {
			return err
		}
		for i, row := range rows {
			payload, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("encode catalog row %s[%d]: %w", key, i, err)
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO catalog_rows (key, position, payload)
				VALUES ($1, $2, $3)
			`, key, i, payload); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

func decodeRows(key string, payloads [][]byte, dst any) error {
	doc := make([]byte, 0, 2+len(payloads)*64)
	doc = append(doc, '[')
	doc = append(doc, bytes.Join(payloads, []byte{','})...)
	doc = append(doc, ']')
	if err := json.Unmarshal(doc, dst); err != nil {
		return fmt.Errorf("decode catalog key %s: %w", key, err)
	}
	return nil
}

var _ catalog.Provider = (*PostgresProvider)(nil)
