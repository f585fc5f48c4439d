package meta

import (
	"errors"

	"github.com/Nomadcxx/tvrename/internal/parse"
)

// Enrich fills ep with looked-up metadata: canonical series name,
// episode name(s), and absolute numbers where the source knows them.
// forceName overrides the parsed series name for the lookup; seriesID
// bypasses name search entirely.
//
// A missing episode name is not an error; the episode proceeds without
// one. Show, season, and episode misses and retrieval failures are
// returned for the caller's skip-behavior gate.
func Enrich(ep *parse.Episode, client Client, forceName string, seriesID int) error {
	name := ep.SeriesName
	if forceName != "" {
		name = forceName
	}

	series, err := client.LookupSeries(name, seriesID)
	if err != nil {
		return err
	}
	ep.SeriesName = series.Name

	switch ep.Kind {
	case parse.KindSeasonEpisode, parse.KindNoSeason:
		// NoSeason episodes look up against season 1, matching how
		// single-season shows are usually indexed.
		season := 1
		if ep.Kind == parse.KindSeasonEpisode {
			season = ep.SeasonNumber
		}

		names := make(map[int]string)
		var absolutes []int
		for _, num := range ep.EpisodeNumbers {
			epName, err := client.EpisodeName(series, season, num)
			if err != nil {
				var nameMissing *EpisodeNameNotFoundError
				if errors.As(err, &nameMissing) {
					continue
				}
				return err
			}
			names[num] = epName

			if abs, ok := client.AbsoluteNumber(series, season, num); ok {
				absolutes = append(absolutes, abs)
			}
		}
		if len(names) > 0 {
			ep.EpisodeNames = names
		}
		ep.AbsoluteNumbers = absolutes

	case parse.KindDated:
		epName, err := client.EpisodeNameByDate(series, ep.AirDate)
		if err != nil {
			var nameMissing *EpisodeNameNotFoundError
			if errors.As(err, &nameMissing) {
				return nil
			}
			return err
		}
		ep.EpisodeName = epName
	}

	return nil
}
