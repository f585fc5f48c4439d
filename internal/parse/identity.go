// Package parse classifies raw media filenames into one of three episode
// identity shapes: season/episode, air-dated, or season-less. An ordered
// list of grammars is tried against the filename; the first grammar that
// matches wins and its captures populate the identity.
package parse

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind tags the episode identity variant. Exactly one applies per file.
type Kind int

const (
	// KindSeasonEpisode is a season plus one or more episode numbers.
	KindSeasonEpisode Kind = iota
	// KindDated is an episode identified by its air date.
	KindDated
	// KindNoSeason is one or more episode numbers with no season dimension
	// (episode-only and absolute numbering).
	KindNoSeason
)

func (k Kind) String() string {
	switch k {
	case KindSeasonEpisode:
		return "season-episode"
	case KindDated:
		return "dated"
	case KindNoSeason:
		return "no-season"
	default:
		return "unknown"
	}
}

// Date is a calendar air date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Valid reports whether the date exists on the calendar.
func (d Date) Valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return false
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && int(t.Month()) == d.Month && t.Day() == d.Day
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Episode is the parsed identity of a single media file.
//
// After parsing, enrichment may write SeriesName, EpisodeNames /
// EpisodeName and AbsoluteNumbers; every other field is fixed at parse
// time. Consumers downstream of enrichment treat the value as read-only.
type Episode struct {
	Kind Kind

	// SeriesName is the candidate series name extracted from the filename,
	// possibly corrected to the canonical name by enrichment. Empty when
	// the filename carried no series name.
	SeriesName string

	// OriginalName is the filename as found on disk, never mutated.
	OriginalName string
	// Dir is the directory containing the file ("." for bare filenames).
	Dir string
	// Ext is the filename extension including the leading dot.
	Ext string
	// SizeBytes is the file size, zero when the file was not stat-able.
	SizeBytes int64

	// Season/episode variant fields.
	SeasonNumber   int
	EpisodeNumbers []int          // non-empty, strictly ascending
	EpisodeNames   map[int]string // episode number -> title, from enrichment
	// AbsoluteNumbers carries absolute episode numbering when enrichment
	// provides it, parallel to EpisodeNumbers.
	AbsoluteNumbers []int

	// Dated variant fields.
	AirDate     Date
	EpisodeName string
}

// FullPath returns the file's current path.
func (e *Episode) FullPath() string {
	return filepath.Join(e.Dir, e.OriginalName)
}

// SortKey yields a deterministic ordering key: series name, then season,
// then first episode number or air date.
func (e *Episode) SortKey() string {
	series := strings.ToLower(e.SeriesName)
	switch e.Kind {
	case KindSeasonEpisode:
		return fmt.Sprintf("%s|%04d|%04d", series, e.SeasonNumber, e.EpisodeNumbers[0])
	case KindDated:
		return fmt.Sprintf("%s|%s", series, e.AirDate)
	case KindNoSeason:
		return fmt.Sprintf("%s|%04d", series, e.EpisodeNumbers[0])
	}
	return series
}

// NewSeasonEpisode builds a season/episode identity. Episode numbers are
// sorted ascending and deduplicated; the sequence must be non-empty and
// the season non-negative.
func NewSeasonEpisode(series string, season int, episodes []int) (*Episode, error) {
	if season < 0 {
		return nil, fmt.Errorf("season number must be non-negative, got %d", season)
	}
	nums, err := normalizeEpisodeNumbers(episodes)
	if err != nil {
		return nil, err
	}
	return &Episode{
		Kind:           KindSeasonEpisode,
		SeriesName:     series,
		SeasonNumber:   season,
		EpisodeNumbers: nums,
		EpisodeNames:   make(map[int]string),
	}, nil
}

// NewDatedEpisode builds an air-dated identity. The date must be a valid
// calendar date (after two-digit year resolution).
func NewDatedEpisode(series string, date Date) (*Episode, error) {
	if !date.Valid() {
		return nil, fmt.Errorf("invalid air date %s", date)
	}
	return &Episode{
		Kind:       KindDated,
		SeriesName: series,
		AirDate:    date,
	}, nil
}

// NewNoSeasonEpisode builds a season-less identity.
func NewNoSeasonEpisode(series string, episodes []int) (*Episode, error) {
	nums, err := normalizeEpisodeNumbers(episodes)
	if err != nil {
		return nil, err
	}
	return &Episode{
		Kind:           KindNoSeason,
		SeriesName:     series,
		EpisodeNumbers: nums,
		EpisodeNames:   make(map[int]string),
	}, nil
}

func normalizeEpisodeNumbers(episodes []int) ([]int, error) {
	if len(episodes) == 0 {
		return nil, fmt.Errorf("episode number sequence must be non-empty")
	}
	nums := make([]int, len(episodes))
	copy(nums, episodes)
	sort.Ints(nums)

	// Strictly ascending: drop duplicates.
	out := nums[:1]
	for _, n := range nums[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out, nil
}
