package sqlite

import (
	"crypto/md5"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/austinxramos/ncbi-api-client/pkg/models"
)

// Error reports an unavailable or failing cache store. Callers are expected
// to treat it as a cache miss rather than failing the overall request.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("cache %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Store is a durable response cache backed by SQLite. Entries are keyed by a
// deterministic fingerprint of the endpoint and request parameters.
type Store struct {
	db *sql.DB
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache (
	cache_key TEXT PRIMARY KEY,
	endpoint TEXT NOT NULL,
	params_hash TEXT NOT NULL,
	response_data TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	hit_count INTEGER NOT NULL DEFAULT 0,
	last_accessed DATETIME
);
CREATE INDEX IF NOT EXISTS idx_cache_endpoint ON cache(endpoint);
CREATE INDEX IF NOT EXISTS idx_cache_created_at ON cache(created_at);
`

// New opens (or creates) the cache database at the given path.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &Error{Op: "open", Err: err}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}

	return NewWithDB(db)
}

// NewWithDB wraps an existing database handle. The caller keeps ownership of
// nothing; Close releases the handle.
func NewWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, &Error{Op: "migrate", Err: err}
	}
	return &Store{db: db}, nil
}

// ComputeKey derives the cache fingerprint for an endpoint and parameter set.
// Parameters are serialized canonically (JSON object keys are emitted sorted),
// so identical parameter sets hash identically regardless of insertion order.
func ComputeKey(endpoint string, params map[string]string) string {
	canonical, _ := json.Marshal(params)
	h := sha256.New()
	h.Write([]byte(endpoint))
	h.Write([]byte(":"))
	h.Write(canonical)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func paramsHash(params map[string]string) string {
	canonical, _ := json.Marshal(params)
	return fmt.Sprintf("%x", md5.Sum(canonical))
}

// Get returns the cached payload for the request, or nil if no entry exists
// or the entry is older than maxAge. A fresh read increments the entry's hit
// count and stamps last_accessed; stale entries are left in place for an
// explicit ClearStale sweep.
func (s *Store) Get(endpoint string, params map[string]string, maxAge time.Duration) ([]byte, error) {
	key := ComputeKey(endpoint, params)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, &Error{Op: "get", Err: err}
	}
	defer tx.Rollback()

	var payload []byte
	var createdAt time.Time
	err = tx.QueryRow(
		`SELECT response_data, created_at FROM cache WHERE cache_key = ?`,
		key,
	).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "get", Err: err}
	}

	if time.Since(createdAt) > maxAge {
		return nil, nil
	}

	if _, err := tx.Exec(
		`UPDATE cache SET hit_count = hit_count + 1, last_accessed = ? WHERE cache_key = ?`,
		time.Now().UTC(), key,
	); err != nil {
		return nil, &Error{Op: "get", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, &Error{Op: "get", Err: err}
	}

	return payload, nil
}

// Set stores a payload, overwriting any existing entry for the same request.
// An overwrite resets created_at and the hit count: a fresh write means the
// data is fresh.
func (s *Store) Set(endpoint string, params map[string]string, payload []byte) error {
	key := ComputeKey(endpoint, params)

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO cache
		 (cache_key, endpoint, params_hash, response_data, created_at, hit_count)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		key, endpoint, paramsHash(params), payload, time.Now().UTC(),
	)
	if err != nil {
		return &Error{Op: "set", Err: err}
	}
	return nil
}

// ClearStale deletes entries older than maxAge and returns how many were
// removed.
func (s *Store) ClearStale(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	res, err := s.db.Exec(`DELETE FROM cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, &Error{Op: "clear", Err: err}
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, &Error{Op: "clear", Err: err}
	}
	return deleted, nil
}

// ClearAll deletes every entry.
func (s *Store) ClearAll() error {
	if _, err := s.db.Exec(`DELETE FROM cache`); err != nil {
		return &Error{Op: "clear", Err: err}
	}
	return nil
}

// Stats aggregates entry and hit counts across the whole store.
func (s *Store) Stats() (models.CacheStats, error) {
	stats := models.CacheStats{ByEndpoint: map[string]int64{}}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(hit_count), 0) FROM cache`,
	).Scan(&stats.TotalEntries, &stats.TotalHits)
	if err != nil {
		return models.CacheStats{}, &Error{Op: "stats", Err: err}
	}

	rows, err := s.db.Query(`SELECT endpoint, COUNT(*) FROM cache GROUP BY endpoint`)
	if err != nil {
		return models.CacheStats{}, &Error{Op: "stats", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var endpoint string
		var count int64
		if err := rows.Scan(&endpoint, &count); err != nil {
			return models.CacheStats{}, &Error{Op: "stats", Err: err}
		}
		stats.ByEndpoint[endpoint] = count
	}
	if err := rows.Err(); err != nil {
		return models.CacheStats{}, &Error{Op: "stats", Err: err}
	}

	return stats, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
