// Package patterncache persists compiled pattern tables in SQLite, keyed
// by a content hash of the tile model that produced them, so repeated
// runs over the same model skip recompilation.
package patterncache

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	_ "modernc.org/sqlite"
)

// Digest content-addresses arbitrary model-defining input (typically the
// canonical bytes of a generator config file) into a cache key, using
// a 256-bit blake2b hash (pattern compilation uses 128-bit blake2b
// for pattern dedup).
func Digest(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Cache wraps the SQLite connection backing the pattern cache.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the SQLite cache database at path.
func Open(path string) (*Cache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pattern cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pattern cache: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run pattern cache migrations: %w", err)
	}
	return c, nil
}

// Close closes the underlying connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS pattern_cache (
			digest TEXT PRIMARY KEY,
			pattern_count INTEGER NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			hits INTEGER NOT NULL DEFAULT 0
		)`)
	return err
}

// Entry is the JSON-serializable projection of a compiled pattern table
// that the cache stores and restores. It mirrors wfc.CompiledPatterns'
// exported shape without importing the wfc package, keeping patterncache
// reusable against any future pattern representation with the same
// fields.
type Entry struct {
	Count   int         `json:"count"`
	Weights []float64   `json:"weights"`
	Prop    [][][]uint64 `json:"prop"` // [pattern][direction][bitset words]
}

// Get looks up digest, returning ok=false on a cache miss. A successful
// hit increments the entry's hit counter.
func (c *Cache) Get(digest string) (*Entry, bool, error) {
	row := c.db.QueryRow(`SELECT payload FROM pattern_cache WHERE digest = ?`, digest)
	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry Entry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, false, fmt.Errorf("pattern cache: corrupt payload for %s: %w", digest, err)
	}

	if _, err := c.db.Exec(`UPDATE pattern_cache SET hits = hits + 1 WHERE digest = ?`, digest); err != nil {
		return nil, false, err
	}
	return &entry, true, nil
}

// Put stores entry under digest, overwriting any existing entry.
func (c *Cache) Put(digest string, entry *Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("pattern cache: failed to marshal entry: %w", err)
	}
	_, err = c.db.Exec(`
		INSERT INTO pattern_cache (digest, pattern_count, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(digest) DO UPDATE SET pattern_count = excluded.pattern_count, payload = excluded.payload
	`, digest, entry.Count, string(payload))
	return err
}

// Stats reports aggregate cache usage, mirroring the teacher's
// leaderboard-style aggregate queries.
type Stats struct {
	Entries  int
	TotalHits int
}

// GetStats reports how many entries are cached and how many cumulative
// hits they have served.
func (c *Cache) GetStats() (Stats, error) {
	var s Stats
	err := c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM pattern_cache`).Scan(&s.Entries, &s.TotalHits)
	return s, err
}

// Evict removes a cached entry, returning whether it existed.
func (c *Cache) Evict(digest string) (bool, error) {
	res, err := c.db.Exec(`DELETE FROM pattern_cache WHERE digest = ?`, digest)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
