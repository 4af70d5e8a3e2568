// Package cache provides the persistent thread cache, keyed by
// (provider, board, thread id). Entries are whole-thread snapshots:
// a put fully replaces any prior entry for the key, trading redundant
// writes for merge-free correctness.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/chandesk/chandesk/internal/board"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key identifies one cached thread.
type Key struct {
	Provider string
	Board    string
	ThreadID int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Provider, k.Board, k.ThreadID)
}

// Stats summarizes cache contents for the settings surface.
type Stats struct {
	ThreadCount int
	PostCount   int
	SizeBytes   int64
	OldestTs    int64
	NewestTs    int64
}

// CleanupResult reports how many entries each cleanup pass removed.
type CleanupResult struct {
	DeletedByAge  int
	DeletedBySize int
}

// Cache is the SQLite-backed thread cache.
type Cache struct {
	db *sql.DB

	// now is swappable for tests
	now func() time.Time
}

// Open creates a Cache at the given database path. Tables are created if
// missing. WAL mode is enabled for file-based databases.
func Open(dbPath string) (*Cache, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	c := &Cache{db: db, now: time.Now}
	if err := c.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return c, nil
}

func (c *Cache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cached_threads (
		provider TEXT NOT NULL,
		board TEXT NOT NULL,
		thread_id INTEGER NOT NULL,
		snapshot BLOB NOT NULL,
		post_count INTEGER NOT NULL,
		size_bytes INTEGER NOT NULL,
		cached_at INTEGER NOT NULL,
		PRIMARY KEY (provider, board, thread_id)
	);

	CREATE INDEX IF NOT EXISTS idx_cached_threads_cached_at ON cached_threads(cached_at);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Put stores a thread snapshot, fully replacing any existing entry for
// the key. There is no partial merge: a thread that gained replies is
// simply re-stored wholesale.
func (c *Cache) Put(key Key, thread board.Thread) error {
	snapshot, err := json.Marshal(thread)
	if err != nil {
		return fmt.Errorf("marshal thread snapshot: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO cached_threads
			(provider, board, thread_id, snapshot, post_count, size_bytes, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, key.Provider, key.Board, key.ThreadID, snapshot, len(thread.Posts), len(snapshot), c.now().Unix())
	if err != nil {
		return fmt.Errorf("store thread snapshot: %w", err)
	}
	return nil
}

// Get retrieves a cached thread snapshot. The second return value is
// false when the key is not cached.
func (c *Cache) Get(key Key) (board.Thread, bool, error) {
	var snapshot []byte
	err := c.db.QueryRow(`
		SELECT snapshot FROM cached_threads
		WHERE provider = ? AND board = ? AND thread_id = ?
	`, key.Provider, key.Board, key.ThreadID).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return board.Thread{}, false, nil
	}
	if err != nil {
		return board.Thread{}, false, fmt.Errorf("query thread snapshot: %w", err)
	}

	var thread board.Thread
	if err := json.Unmarshal(snapshot, &thread); err != nil {
		// A snapshot that no longer decodes is as good as absent
		return board.Thread{}, false, nil
	}
	return thread, true, nil
}

// IsFresh reports whether the key is cached and its entry is no older
// than maxAge. A missing entry is never fresh.
func (c *Cache) IsFresh(key Key, maxAge time.Duration) (bool, error) {
	var cachedAt int64
	err := c.db.QueryRow(`
		SELECT cached_at FROM cached_threads
		WHERE provider = ? AND board = ? AND thread_id = ?
	`, key.Provider, key.Board, key.ThreadID).Scan(&cachedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query cache entry age: %w", err)
	}
	return c.now().Unix()-cachedAt <= int64(maxAge.Seconds()), nil
}

// Stats returns summary statistics over the cache contents.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	var size, oldest, newest sql.NullInt64
	var posts sql.NullInt64
	err := c.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(post_count), 0), COALESCE(SUM(size_bytes), 0),
			MIN(cached_at), MAX(cached_at)
		FROM cached_threads
	`).Scan(&s.ThreadCount, &posts, &size, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("query cache stats: %w", err)
	}
	s.PostCount = int(posts.Int64)
	s.SizeBytes = size.Int64
	s.OldestTs = oldest.Int64
	s.NewestTs = newest.Int64
	return s, nil
}

// Cleanup prunes the cache in two ordered passes: first every entry
// older than maxAgeDays is dropped, then, if the remaining total size
// still exceeds maxSizeMB, entries are dropped oldest-cached-first until
// the total fits. Write time stands in for access time; the cache does
// not track reads.
func (c *Cache) Cleanup(maxAgeDays, maxSizeMB int) (CleanupResult, error) {
	var res CleanupResult

	cutoff := c.now().Unix() - int64(maxAgeDays)*24*60*60
	r, err := c.db.Exec("DELETE FROM cached_threads WHERE cached_at <= ?", cutoff)
	if err != nil {
		return res, fmt.Errorf("age cleanup pass: %w", err)
	}
	if n, err := r.RowsAffected(); err == nil {
		res.DeletedByAge = int(n)
	}

	maxBytes := int64(maxSizeMB) * 1024 * 1024
	var total int64
	if err := c.db.QueryRow("SELECT COALESCE(SUM(size_bytes), 0) FROM cached_threads").Scan(&total); err != nil {
		return res, fmt.Errorf("size cleanup pass: %w", err)
	}
	if total <= maxBytes {
		return res, nil
	}

	rows, err := c.db.Query(`
		SELECT provider, board, thread_id, size_bytes
		FROM cached_threads ORDER BY cached_at ASC, rowid ASC
	`)
	if err != nil {
		return res, fmt.Errorf("size cleanup pass: %w", err)
	}

	type victim struct {
		key  Key
		size int64
	}
	var victims []victim
	for rows.Next() {
		var v victim
		if err := rows.Scan(&v.key.Provider, &v.key.Board, &v.key.ThreadID, &v.size); err != nil {
			rows.Close()
			return res, fmt.Errorf("scan cleanup candidate: %w", err)
		}
		victims = append(victims, v)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return res, fmt.Errorf("iterate cleanup candidates: %w", err)
	}
	rows.Close()

	for _, v := range victims {
		if total <= maxBytes {
			break
		}
		_, err := c.db.Exec(`
			DELETE FROM cached_threads
			WHERE provider = ? AND board = ? AND thread_id = ?
		`, v.key.Provider, v.key.Board, v.key.ThreadID)
		if err != nil {
			return res, fmt.Errorf("delete cache entry %s: %w", v.key, err)
		}
		total -= v.size
		res.DeletedBySize++
	}

	return res, nil
}

// Clear unconditionally empties the cache. This is the user-facing
// "nuke everything", distinct from policy-driven Cleanup.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM cached_threads"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}
