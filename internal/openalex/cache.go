package openalex

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is a SQLite-backed response cache keyed by request URL. Harvesting a
// faculty hits the same works and institutions pages across pipeline runs;
// the cache keeps those re-runs off the network.
type Cache struct {
	db     *sql.DB
	maxAge time.Duration
}

// DefaultMaxAge is how long cached responses stay valid.
const DefaultMaxAge = 7 * 24 * time.Hour

// OpenCache opens or creates the cache database at the given path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	schema := `
		CREATE TABLE IF NOT EXISTS responses (
			url TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Cache{db: db, maxAge: DefaultMaxAge}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached body for a URL if present and fresh.
func (c *Cache) Get(url string) ([]byte, bool) {
	var body []byte
	var fetchedAt int64
	err := c.db.QueryRow(
		"SELECT body, fetched_at FROM responses WHERE url = ?", url,
	).Scan(&body, &fetchedAt)
	if err != nil {
		return nil, false
	}
	if time.Since(time.Unix(fetchedAt, 0)) > c.maxAge {
		return nil, false
	}
	return body, true
}

// Put stores a response body for a URL, replacing any previous entry.
func (c *Cache) Put(url string, body []byte) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO responses (url, body, fetched_at) VALUES (?, ?, ?)",
		url, body, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}
	return nil
}

// Prune deletes entries older than the cache max age and returns how many
// were removed.
func (c *Cache) Prune() (int, error) {
	cutoff := time.Now().Add(-c.maxAge).Unix()
	res, err := c.db.Exec("DELETE FROM responses WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
