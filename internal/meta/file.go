package meta

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Nomadcxx/tvrename/internal/parse"
)

type fileSeries struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Episodes []fileEpisode `json:"episodes"`
}

type fileEpisode struct {
	Season     int    `json:"season"`
	Episode    int    `json:"episode"`
	Name       string `json:"name"`
	Absolute   int    `json:"absolute,omitempty"`
	Aired      string `json:"aired,omitempty"`
	DVDSeason  int    `json:"dvd_season,omitempty"`
	DVDEpisode int    `json:"dvd_episode,omitempty"`
}

// LoadFile reads series data from a JSON file (an array of series, each
// with a flat episode list) into a StaticClient. Air dates are
// YYYY-MM-DD strings.
func LoadFile(path string, order Order) (*StaticClient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataRetrievalError{Err: err}
	}

	var all []fileSeries
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, &DataRetrievalError{Err: fmt.Errorf("parse %s: %w", path, err)}
	}

	client := NewStaticClient(order)
	for _, fs := range all {
		client.AddSeries(fs.ID, fs.Name)
		for _, fe := range fs.Episodes {
			rec := EpisodeRecord{
				Season:     fe.Season,
				Episode:    fe.Episode,
				Name:       fe.Name,
				Absolute:   fe.Absolute,
				DVDSeason:  fe.DVDSeason,
				DVDEpisode: fe.DVDEpisode,
			}
			if fe.Aired != "" {
				var d parse.Date
				if _, err := fmt.Sscanf(fe.Aired, "%d-%d-%d", &d.Year, &d.Month, &d.Day); err != nil {
					return nil, &DataRetrievalError{Err: fmt.Errorf("bad air date %q in %s: %w", fe.Aired, path, err)}
				}
				if !d.Valid() {
					return nil, &DataRetrievalError{Err: fmt.Errorf("bad air date %q in %s", fe.Aired, path)}
				}
				rec.Aired = d
			}
			client.AddEpisode(fs.ID, rec)
		}
	}
	return client, nil
}
