package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// SQLiteCatalog persists full chunk records in SQLite. Retrievers return
// only (chunk_id, score); display fields are enriched from here in one
// batch query per request.
type SQLiteCatalog struct {
	db *sql.DB
}

const catalogSchema = `
CREATE TABLE IF NOT EXISTS chunks (
	chunk_id     TEXT PRIMARY KEY,
	doc_id       TEXT NOT NULL,
	chunk_index  INTEGER NOT NULL,
	content      TEXT NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	url          TEXT NOT NULL DEFAULT '',
	source       TEXT NOT NULL DEFAULT '',
	language     TEXT NOT NULL DEFAULT 'en',
	published_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_chunks_doc_id ON chunks(doc_id);
`

// NewSQLiteCatalog opens or creates the catalog database.
// An empty path opens an in-memory database.
func NewSQLiteCatalog(path string) (*SQLiteCatalog, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	// modernc.org/sqlite ignores some DSN params; set pragmas explicitly.
	if path != "" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set synchronous: %w", err)
	}

	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}

	return &SQLiteCatalog{db: db}, nil
}

// Upsert writes records with overwrite semantics keyed by chunk id.
func (c *SQLiteCatalog) Upsert(ctx context.Context, chunks []*ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, doc_id, chunk_index, content, title, url, source, language, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			doc_id = excluded.doc_id,
			chunk_index = excluded.chunk_index,
			content = excluded.content,
			title = excluded.title,
			url = excluded.url,
			source = excluded.source,
			language = excluded.language,
			published_at = excluded.published_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, ch := range chunks {
		var publishedAt any
		if ch.PublishedAt != "" {
			publishedAt = ch.PublishedAt
		}
		if _, err := stmt.ExecContext(ctx,
			ch.ChunkID, ch.DocID, ch.ChunkIndex, ch.Content,
			ch.Title, ch.URL, ch.Source, ch.Language, publishedAt,
		); err != nil {
			return fmt.Errorf("upsert chunk %s: %w", ch.ChunkID, err)
		}
	}

	return tx.Commit()
}

// Get batch-fetches records by id. Missing ids are silently absent; the
// caller reconciles against its own id list.
func (c *SQLiteCatalog) Get(ctx context.Context, ids []string) ([]*ChunkRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT chunk_id, doc_id, chunk_index, content, title, url, source, language, published_at
		FROM chunks WHERE chunk_id IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}
	defer rows.Close()

	var out []*ChunkRecord
	for rows.Next() {
		var ch ChunkRecord
		var publishedAt sql.NullString
		if err := rows.Scan(&ch.ChunkID, &ch.DocID, &ch.ChunkIndex, &ch.Content,
			&ch.Title, &ch.URL, &ch.Source, &ch.Language, &publishedAt); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		ch.PublishedAt = publishedAt.String
		out = append(out, &ch)
	}
	return out, rows.Err()
}

// DeleteAll removes every record.
func (c *SQLiteCatalog) DeleteAll(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("delete all chunks: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (c *SQLiteCatalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// Ping reports store reachability via a lightweight count.
func (c *SQLiteCatalog) Ping(ctx context.Context) error {
	_, err := c.Count(ctx)
	return err
}

// Close closes the database.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

var _ Catalog = (*SQLiteCatalog)(nil)
