// Package pgvector provides a Postgres-backed vector store using the
// pgvector extension. It suits shared deployments where retrieval
// runs against the same database.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store persists chunks in a per-collection Postgres table with a
// pgvector embedding column.
type Store struct {
	db    *sql.DB
	table string
}

// NewStore connects to Postgres and ensures the collection table
// exists. dimensions fixes the vector column width and must match the
// embedding model.
func NewStore(ctx context.Context, dsn, collection string, dimensions int) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: pgvector DSN is empty", domain.ErrInvalidInput)
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be positive", domain.ErrInvalidInput)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{db: db, table: tableName(collection)}
	if err := s.bootstrap(ctx, dimensions); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return s, nil
}

// tableName derives a safe table identifier from the collection name.
func tableName(collection string) string {
	sanitised := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, collection)
	return sanitised + "_chunks"
}

func (s *Store) bootstrap(ctx context.Context, dimensions int) error {
	if _, err := s.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create extension: %w", err)
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id           TEXT PRIMARY KEY,
			source       TEXT NOT NULL,
			page         INTEGER NOT NULL,
			content_type TEXT NOT NULL,
			position     INTEGER NOT NULL,
			content      TEXT NOT NULL,
			embedding    vector(%d)
		)`, s.table, dimensions)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_source ON %s (source)`, s.table, s.table)
	if _, err := s.db.ExecContext(ctx, idx); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// DeleteBySource removes every chunk belonging to the given sources.
func (s *Store) DeleteBySource(ctx context.Context, sources []string) error {
	if len(sources) == 0 {
		return nil
	}

	q := fmt.Sprintf(`DELETE FROM %s WHERE source = ANY($1)`, s.table)
	if _, err := s.db.ExecContext(ctx, q, sources); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// Upsert writes chunks in a single transaction, replacing rows that
// share an id.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	q := fmt.Sprintf(`
		INSERT INTO %s (id, source, page, content_type, position, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			page = EXCLUDED.page,
			content_type = EXCLUDED.content_type,
			position = EXCLUDED.position,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`, s.table)

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		_, err := stmt.ExecContext(ctx,
			chunk.ID,
			chunk.Provenance.Source,
			chunk.Provenance.Page,
			string(chunk.Provenance.Type),
			chunk.Position,
			chunk.Text,
			pgvector.NewVector(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}
	}

	return tx.Commit()
}

// Count returns the total number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	q := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
