package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const cacheSchema = `CREATE TABLE IF NOT EXISTS resolver_cache (
	uri        TEXT PRIMARY KEY,
	content    BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
)`

// Cache stores fetched documents in a SQLite database. Entries older than
// the TTL are fetched again; a TTL of zero keeps entries forever.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens (or creates) the cache database at path.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("resolver: create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("resolver: open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("resolver: apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("resolver: init cache schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Wrap returns a Resolver that answers from the cache when it holds a fresh
// entry and otherwise delegates to next and stores the result. Failures of
// next are never cached.
func (c *Cache) Wrap(next Resolver) Resolver {
	return Func(func(ctx context.Context, uri string) ([]byte, error) {
		data, ok, err := c.get(ctx, uri)
		if err != nil {
			return nil, err
		}
		if ok {
			return data, nil
		}

		data, err = next.Resolve(ctx, uri)
		if err != nil {
			return nil, err
		}
		if err := c.put(ctx, uri, data); err != nil {
			return nil, err
		}
		return data, nil
	})
}

func (c *Cache) get(ctx context.Context, uri string) ([]byte, bool, error) {
	var (
		data      []byte
		fetchedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT content, fetched_at FROM resolver_cache WHERE uri = ?`, uri,
	).Scan(&data, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("resolver: read cache entry %s: %w", uri, err)
	}
	if c.expired(fetchedAt) {
		return nil, false, nil
	}
	return data, true, nil
}

func (c *Cache) put(ctx context.Context, uri string, data []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO resolver_cache (uri, content, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(uri) DO UPDATE SET content = excluded.content, fetched_at = excluded.fetched_at`,
		uri, data, c.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("resolver: write cache entry %s: %w", uri, err)
	}
	return nil
}

func (c *Cache) expired(fetchedAt int64) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(time.Unix(0, fetchedAt)) >= c.ttl
}

// Purge deletes expired entries and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-c.ttl).UnixNano()
	res, err := c.db.ExecContext(ctx, `DELETE FROM resolver_cache WHERE fetched_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("resolver: purge cache: %w", err)
	}
	return res.RowsAffected()
}
