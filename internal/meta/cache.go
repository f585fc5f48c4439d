package meta

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Nomadcxx/tvrename/internal/parse"
	_ "modernc.org/sqlite"
)

// CachedClient wraps another Client with a SQLite lookup cache. Hits are
// served from disk; misses go to the inner client and successful answers
// are stored. Failed lookups are never cached, so a transient error or a
// data source update is retried on the next run.
type CachedClient struct {
	inner Client
	order Order
	db    *sql.DB
	mu    sync.Mutex
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS series_lookup (
	query       TEXT NOT NULL,
	series_id   INTEGER NOT NULL,
	series_name TEXT NOT NULL,
	cached_at   TIMESTAMP NOT NULL,
	PRIMARY KEY (query)
);

CREATE TABLE IF NOT EXISTS episode_names (
	series_id INTEGER NOT NULL,
	ord       TEXT NOT NULL,
	season    INTEGER NOT NULL,
	episode   INTEGER NOT NULL,
	name      TEXT NOT NULL,
	cached_at TIMESTAMP NOT NULL,
	PRIMARY KEY (series_id, ord, season, episode)
);

CREATE TABLE IF NOT EXISTS dated_names (
	series_id INTEGER NOT NULL,
	air_date  TEXT NOT NULL,
	name      TEXT NOT NULL,
	cached_at TIMESTAMP NOT NULL,
	PRIMARY KEY (series_id, air_date)
);
`

// OpenCache opens or creates the cache database at path and wraps inner
// with it. order is part of the episode-name cache key so aired and DVD
// numbering never collide.
func OpenCache(path string, inner Client, order Order) (*CachedClient, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	if order == "" {
		order = OrderAired
	}
	return &CachedClient{inner: inner, order: order, db: db}, nil
}

// OpenCacheInMemory opens an in-memory cache for testing.
func OpenCacheInMemory(inner Client, order Order) (*CachedClient, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	if order == "" {
		order = OrderAired
	}
	return &CachedClient{inner: inner, order: order, db: db}, nil
}

func (c *CachedClient) Close() error {
	return c.db.Close()
}

func seriesQueryKey(name string, id int) string {
	return fmt.Sprintf("%s|%d", strings.ToLower(name), id)
}

func (c *CachedClient) LookupSeries(name string, id int) (Series, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := seriesQueryKey(name, id)

	var cached Series
	err := c.db.QueryRow(
		`SELECT series_id, series_name FROM series_lookup WHERE query = ?`, key,
	).Scan(&cached.ID, &cached.Name)
	if err == nil {
		return cached, nil
	}
	if err != sql.ErrNoRows {
		return Series{}, &DataRetrievalError{Err: err}
	}

	series, err := c.inner.LookupSeries(name, id)
	if err != nil {
		return Series{}, err
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO series_lookup (query, series_id, series_name, cached_at) VALUES (?, ?, ?, ?)`,
		key, series.ID, series.Name, time.Now(),
	)
	if err != nil {
		return Series{}, &DataRetrievalError{Err: err}
	}
	return series, nil
}

func (c *CachedClient) EpisodeName(series Series, season, episode int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var name string
	err := c.db.QueryRow(
		`SELECT name FROM episode_names WHERE series_id = ? AND ord = ? AND season = ? AND episode = ?`,
		series.ID, string(c.order), season, episode,
	).Scan(&name)
	if err == nil {
		return name, nil
	}
	if err != sql.ErrNoRows {
		return "", &DataRetrievalError{Err: err}
	}

	name, err = c.inner.EpisodeName(series, season, episode)
	if err != nil {
		return "", err
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO episode_names (series_id, ord, season, episode, name, cached_at) VALUES (?, ?, ?, ?, ?, ?)`,
		series.ID, string(c.order), season, episode, name, time.Now(),
	)
	if err != nil {
		return "", &DataRetrievalError{Err: err}
	}
	return name, nil
}

func (c *CachedClient) EpisodeNameByDate(series Series, date parse.Date) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var name string
	err := c.db.QueryRow(
		`SELECT name FROM dated_names WHERE series_id = ? AND air_date = ?`,
		series.ID, date.String(),
	).Scan(&name)
	if err == nil {
		return name, nil
	}
	if err != sql.ErrNoRows {
		return "", &DataRetrievalError{Err: err}
	}

	name, err = c.inner.EpisodeNameByDate(series, date)
	if err != nil {
		return "", err
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO dated_names (series_id, air_date, name, cached_at) VALUES (?, ?, ?, ?)`,
		series.ID, date.String(), name, time.Now(),
	)
	if err != nil {
		return "", &DataRetrievalError{Err: err}
	}
	return name, nil
}

// AbsoluteNumber is not cached; numbering is already in memory for the
// shipped clients and there is no error path to shield.
func (c *CachedClient) AbsoluteNumber(series Series, season, episode int) (int, bool) {
	return c.inner.AbsoluteNumber(series, season, episode)
}
