package meta

import (
	"strings"

	"github.com/Nomadcxx/tvrename/internal/parse"
)

type epKey struct {
	season  int
	episode int
}

type epEntry struct {
	name     string
	absolute int
}

type seriesData struct {
	info   Series
	aired  map[epKey]epEntry
	dvd    map[epKey]epEntry
	byDate map[parse.Date]epEntry
}

// EpisodeRecord is one episode of a series as fed into a StaticClient.
// DVDSeason/DVDEpisode of zero mean the episode has no DVD numbering.
type EpisodeRecord struct {
	Season     int
	Episode    int
	Name       string
	Absolute   int
	Aired      parse.Date
	DVDSeason  int
	DVDEpisode int
}

// StaticClient serves lookups from in-memory data. Used by tests and as
// the backing store for FileClient.
type StaticClient struct {
	order  Order
	series []*seriesData
}

// NewStaticClient builds an empty client answering in the given episode
// order.
func NewStaticClient(order Order) *StaticClient {
	if order == "" {
		order = OrderAired
	}
	return &StaticClient{order: order}
}

// AddSeries registers a show. Episodes are attached with AddEpisode.
func (c *StaticClient) AddSeries(id int, name string) {
	c.series = append(c.series, &seriesData{
		info:   Series{ID: id, Name: name},
		aired:  make(map[epKey]epEntry),
		dvd:    make(map[epKey]epEntry),
		byDate: make(map[parse.Date]epEntry),
	})
}

// AddEpisode attaches an episode to a previously added series. Unknown
// series ids are ignored.
func (c *StaticClient) AddEpisode(seriesID int, rec EpisodeRecord) {
	sd := c.find(seriesID)
	if sd == nil {
		return
	}
	entry := epEntry{name: rec.Name, absolute: rec.Absolute}
	sd.aired[epKey{rec.Season, rec.Episode}] = entry
	if rec.DVDSeason > 0 {
		sd.dvd[epKey{rec.DVDSeason, rec.DVDEpisode}] = entry
	}
	if rec.Aired.Valid() {
		sd.byDate[rec.Aired] = entry
	}
}

func (c *StaticClient) find(id int) *seriesData {
	for _, sd := range c.series {
		if sd.info.ID == id {
			return sd
		}
	}
	return nil
}

func (c *StaticClient) LookupSeries(name string, id int) (Series, error) {
	if id > 0 {
		if sd := c.find(id); sd != nil {
			return sd.info, nil
		}
		return Series{}, &ShowNotFoundError{Name: name, ID: id}
	}
	for _, sd := range c.series {
		if strings.EqualFold(sd.info.Name, name) {
			return sd.info, nil
		}
	}
	return Series{}, &ShowNotFoundError{Name: name}
}

func (c *StaticClient) episodes(sd *seriesData) map[epKey]epEntry {
	if c.order == OrderDVD && len(sd.dvd) > 0 {
		return sd.dvd
	}
	return sd.aired
}

func (c *StaticClient) EpisodeName(series Series, season, episode int) (string, error) {
	sd := c.find(series.ID)
	if sd == nil {
		return "", &ShowNotFoundError{Name: series.Name, ID: series.ID}
	}

	eps := c.episodes(sd)
	entry, ok := eps[epKey{season, episode}]
	if !ok {
		for k := range eps {
			if k.season == season {
				return "", &EpisodeNotFoundError{Series: series.Name, Season: season, Episode: episode}
			}
		}
		return "", &SeasonNotFoundError{Series: series.Name, Season: season}
	}
	if entry.name == "" {
		return "", &EpisodeNameNotFoundError{Series: series.Name, Season: season, Episode: episode}
	}
	return entry.name, nil
}

func (c *StaticClient) EpisodeNameByDate(series Series, date parse.Date) (string, error) {
	sd := c.find(series.ID)
	if sd == nil {
		return "", &ShowNotFoundError{Name: series.Name, ID: series.ID}
	}
	entry, ok := sd.byDate[date]
	if !ok {
		return "", &EpisodeNotFoundError{Series: series.Name, Date: date}
	}
	if entry.name == "" {
		return "", &EpisodeNameNotFoundError{Series: series.Name}
	}
	return entry.name, nil
}

func (c *StaticClient) AbsoluteNumber(series Series, season, episode int) (int, bool) {
	sd := c.find(series.ID)
	if sd == nil {
		return 0, false
	}
	entry, ok := c.episodes(sd)[epKey{season, episode}]
	if !ok || entry.absolute == 0 {
		return 0, false
	}
	return entry.absolute, true
}
