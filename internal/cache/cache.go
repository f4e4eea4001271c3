package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/templar-lang/templar/internal/config"
	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/transform"
)

// Cache persists transform results between runs, keyed by a content hash
// of source plus options. A generation id ties entries to one toolchain
// version; a version bump rotates the generation and drops everything.
type Cache struct {
	db         *sql.DB
	generation string
}

// Entry is the cached slice of a transform result. The range map is
// recomputed on demand, so only what diagnostics rendering needs is
// stored.
type Entry struct {
	Code   string                         `json:"code"`
	Errors []*diagnostics.DiagnosticError `json:"errors"`
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	c := &Cache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	for _, query := range []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transforms (
			key     TEXT PRIMARY KEY,
			entry   BLOB NOT NULL,
			created INTEGER NOT NULL
		)`,
	} {
		if _, err := c.db.Exec(query); err != nil {
			return fmt.Errorf("initializing cache schema: %w", err)
		}
	}

	var version string
	err := c.db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading cache metadata: %w", err)
	}
	if err == sql.ErrNoRows || version != config.Version {
		return c.rotate()
	}
	return c.db.QueryRow(`SELECT value FROM meta WHERE key = 'generation'`).Scan(&c.generation)
}

// rotate clears all entries and stamps a fresh generation.
func (c *Cache) rotate() error {
	generation := uuid.NewString()
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("rotating cache generation: %w", err)
	}
	for _, step := range []struct {
		query string
		args  []interface{}
	}{
		{`DELETE FROM transforms`, nil},
		{`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?1)`, []interface{}{config.Version}},
		{`INSERT OR REPLACE INTO meta (key, value) VALUES ('generation', ?1)`, []interface{}{generation}},
	} {
		if _, err := tx.Exec(step.query, step.args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("rotating cache generation: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("rotating cache generation: %w", err)
	}
	c.generation = generation
	return nil
}

// Generation returns the current generation id.
func (c *Cache) Generation() string {
	return c.generation
}

// Key derives the cache key for a source/options pair.
func Key(source string, opts transform.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%d\x00%d\x00",
		config.Version, opts.TypeParams, opts.ContextType,
		strings.Join(opts.IdentifiersInScope, ","),
		opts.EmbeddedStart, opts.EmbeddedEnd)
	for _, line := range opts.Preamble {
		fmt.Fprintf(h, "%s\x00", line)
	}
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up a cached entry.
func (c *Cache) Get(key string) (*Entry, bool, error) {
	var blob []byte
	err := c.db.QueryRow(`SELECT entry FROM transforms WHERE key = ?1`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(blob, &entry); err != nil {
		// A corrupt entry is treated as a miss and overwritten.
		return nil, false, nil
	}
	return &entry, true, nil
}

// Put stores an entry.
func (c *Cache) Put(key string, entry *Entry) error {
	blob, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO transforms (key, entry, created) VALUES (?1, ?2, ?3)`,
		key, blob, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear drops all entries and rotates the generation.
func (c *Cache) Clear() error {
	return c.rotate()
}

func (c *Cache) Close() error {
	return c.db.Close()
}
