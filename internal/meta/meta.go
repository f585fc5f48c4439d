// Package meta resolves series and episode names. The lookup source is
// pluggable behind Client; the package ships an in-memory client, a
// JSON-file client, and a SQLite-backed caching decorator.
package meta

import (
	"fmt"

	"github.com/Nomadcxx/tvrename/internal/parse"
)

// Order selects between aired episode numbering and DVD numbering.
type Order string

const (
	OrderAired Order = "aired"
	OrderDVD   Order = "dvd"
)

// Series identifies a resolved show.
type Series struct {
	ID   int
	Name string
}

// Client looks up series and episode metadata. LookupSeries resolves by
// id when id > 0, otherwise by name.
type Client interface {
	LookupSeries(name string, id int) (Series, error)
	EpisodeName(series Series, season, episode int) (string, error)
	EpisodeNameByDate(series Series, date parse.Date) (string, error)
	AbsoluteNumber(series Series, season, episode int) (int, bool)
}

// ShowNotFoundError means no series matched the query.
type ShowNotFoundError struct {
	Name string
	ID   int
}

func (e *ShowNotFoundError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("show with id %d not found", e.ID)
	}
	return fmt.Sprintf("show %q not found", e.Name)
}

// SeasonNotFoundError means the series exists but has no such season.
type SeasonNotFoundError struct {
	Series string
	Season int
}

func (e *SeasonNotFoundError) Error() string {
	return fmt.Sprintf("season %d of %q not found", e.Season, e.Series)
}

// EpisodeNotFoundError means the season (or air date) exists but the
// episode does not.
type EpisodeNotFoundError struct {
	Series  string
	Season  int
	Episode int
	Date    parse.Date
}

func (e *EpisodeNotFoundError) Error() string {
	if e.Date.Valid() {
		return fmt.Sprintf("episode of %q aired %s not found", e.Series, e.Date)
	}
	return fmt.Sprintf("episode %dx%d of %q not found", e.Season, e.Episode, e.Series)
}

// EpisodeNameNotFoundError means the episode exists but carries no name.
// Callers treat this as non-fatal and render without a name.
type EpisodeNameNotFoundError struct {
	Series  string
	Season  int
	Episode int
}

func (e *EpisodeNameNotFoundError) Error() string {
	return fmt.Sprintf("episode %dx%d of %q has no name", e.Season, e.Episode, e.Series)
}

// DataRetrievalError wraps a failure talking to the lookup source.
type DataRetrievalError struct {
	Err error
}

func (e *DataRetrievalError) Error() string {
	return fmt.Sprintf("metadata retrieval failed: %v", e.Err)
}

func (e *DataRetrievalError) Unwrap() error { return e.Err }
