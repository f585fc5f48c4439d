package renamer

import (
	"os"
	"strings"

	"github.com/Nomadcxx/tvrename/internal/parse"
	"github.com/Nomadcxx/tvrename/internal/transform"
)

// Templates holds one filename format per identity variant, each in a
// with-episode-name and a without-episode-name flavor. The with-name
// flavor is used only when enrichment supplied every episode title.
type Templates struct {
	WithEpisodeName     string `mapstructure:"with_episode_name"`
	WithoutEpisodeName  string `mapstructure:"without_episode_name"`
	NoSeasonWithName    string `mapstructure:"no_season_with_name"`
	NoSeasonWithoutName string `mapstructure:"no_season_without_name"`
	DatedWithName       string `mapstructure:"dated_with_name"`
	DatedWithoutName    string `mapstructure:"dated_without_name"`
}

// DefaultTemplates returns the stock filename formats.
func DefaultTemplates() Templates {
	return Templates{
		WithEpisodeName:     "%(seriesname)s - [%(seasonnumber)02dx%(episode)s] - %(episodename)s%(ext)s",
		WithoutEpisodeName:  "%(seriesname)s - [%(seasonnumber)02dx%(episode)s]%(ext)s",
		NoSeasonWithName:    "%(seriesname)s - [%(episode)s] - %(episodename)s%(ext)s",
		NoSeasonWithoutName: "%(seriesname)s - [%(episode)s]%(ext)s",
		DatedWithName:       "%(seriesname)s - [%(date)s] - %(episodename)s%(ext)s",
		DatedWithoutName:    "%(seriesname)s - [%(date)s]%(ext)s",
	}
}

// Options configures filename and destination generation.
type Options struct {
	Templates Templates

	// EpisodeSingle formats one episode number, EpisodeSeparator joins
	// non-consecutive runs, MultiEpJoin joins the titles of a
	// multi-episode file.
	EpisodeSingle    string
	EpisodeSeparator string
	MultiEpJoin      string

	// Destination directory templates per variant. DestinationAlt, when
	// it expands to a directory that already exists, is preferred over
	// Destination.
	Destination         string
	DestinationAlt      string
	DestinationDated    string
	DestinationNoSeason string

	// LowercaseDestination folds directory-template substitutions to
	// lower case.
	LowercaseDestination bool
}

// Generator produces filenames and destination paths from an episode
// identity. Both are pure functions of the identity plus the configured
// templates; the only filesystem access is the alternate-destination
// existence probe.
type Generator struct {
	opts     Options
	pipeline *transform.Pipeline
}

// NewGenerator builds a Generator. pipeline supplies the output-stage
// transforms and per-field sanitization; it may be nil.
func NewGenerator(opts Options, pipeline *transform.Pipeline) *Generator {
	if opts.Templates == (Templates{}) {
		opts.Templates = DefaultTemplates()
	}
	if opts.MultiEpJoin == "" {
		opts.MultiEpJoin = ", "
	}
	return &Generator{opts: opts, pipeline: pipeline}
}

// Filename generates the normalized filename for an episode identity,
// applying the output transform stage. Missing enrichment data degrades
// to the without-name template.
func (g *Generator) Filename(ep *parse.Episode) string {
	var tmpl string
	vals := map[string]interface{}{
		"seriesname":       ep.SeriesName,
		"originalfilename": ep.OriginalName,
		"ext":              ep.Ext,
	}

	switch ep.Kind {
	case parse.KindSeasonEpisode:
		vals["seasonnumber"] = ep.SeasonNumber
		vals["episode"] = FormatEpisodeNumbers(ep.EpisodeNumbers, g.opts.EpisodeSingle, g.opts.EpisodeSeparator)
		name, ok := g.joinedNames(ep)
		tmpl = g.opts.Templates.WithoutEpisodeName
		if ok {
			vals["episodename"] = name
			tmpl = g.opts.Templates.WithEpisodeName
		}

	case parse.KindDated:
		vals["date"] = ep.AirDate.String()
		vals["year"] = ep.AirDate.Year
		vals["month"] = ep.AirDate.Month
		vals["day"] = ep.AirDate.Day
		tmpl = g.opts.Templates.DatedWithoutName
		if ep.EpisodeName != "" {
			vals["episodename"] = ep.EpisodeName
			tmpl = g.opts.Templates.DatedWithName
		}

	case parse.KindNoSeason:
		vals["episode"] = FormatEpisodeNumbers(ep.EpisodeNumbers, g.opts.EpisodeSingle, g.opts.EpisodeSeparator)
		name, ok := g.joinedNames(ep)
		tmpl = g.opts.Templates.NoSeasonWithoutName
		if ok {
			vals["episodename"] = name
			tmpl = g.opts.Templates.NoSeasonWithName
		}
	}

	out := Expand(tmpl, vals)
	if g.pipeline != nil {
		out = g.pipeline.Apply(transform.StageOutput, out)
	}
	return out
}

// joinedNames returns the enriched titles for every episode number joined
// with MultiEpJoin, or ok=false when any title is missing.
func (g *Generator) joinedNames(ep *parse.Episode) (string, bool) {
	if len(ep.EpisodeNames) == 0 {
		return "", false
	}
	names := make([]string, 0, len(ep.EpisodeNumbers))
	for _, n := range ep.EpisodeNumbers {
		name, ok := ep.EpisodeNames[n]
		if !ok || name == "" {
			return "", false
		}
		names = append(names, name)
	}
	return strings.Join(names, g.opts.MultiEpJoin), true
}

// Destination expands the per-variant directory template. Substituted
// fields are sanitized individually (never run through the output stage)
// so a series name cannot smuggle a path separator into the tree. When
// the alternate destination already exists on disk it wins over the
// primary.
func (g *Generator) Destination(ep *parse.Episode) string {
	valid := func(s string) string {
		if g.opts.LowercaseDestination {
			s = strings.ToLower(s)
		}
		if g.pipeline != nil {
			return g.pipeline.Sanitize(s)
		}
		return transform.MakeValidFilename(s, false, "", "")
	}

	vals := map[string]interface{}{
		"seriesname":       valid(ep.SeriesName),
		"originalfilename": ep.OriginalName,
		"ext":              ep.Ext,
	}
	// Titles so a destination template can name the full file path.
	if name, ok := g.joinedNames(ep); ok {
		vals["episodename"] = valid(name)
	} else if ep.EpisodeName != "" {
		vals["episodename"] = valid(ep.EpisodeName)
	}

	var tmpl string
	switch ep.Kind {
	case parse.KindSeasonEpisode:
		vals["seasonnumber"] = ep.SeasonNumber
		vals["episode"] = valid(FormatEpisodeNumbers(ep.EpisodeNumbers, g.opts.EpisodeSingle, g.opts.EpisodeSeparator))
		tmpl = g.opts.Destination

		if g.opts.DestinationAlt != "" {
			alt := Expand(g.opts.DestinationAlt, vals)
			if _, err := os.Stat(alt); err == nil {
				return alt
			}
		}

	case parse.KindDated:
		vals["date"] = ep.AirDate.String()
		vals["year"] = ep.AirDate.Year
		vals["month"] = ep.AirDate.Month
		vals["day"] = ep.AirDate.Day
		tmpl = g.opts.DestinationDated

	case parse.KindNoSeason:
		vals["episode"] = valid(FormatEpisodeNumbers(ep.EpisodeNumbers, g.opts.EpisodeSingle, g.opts.EpisodeSeparator))
		tmpl = g.opts.DestinationNoSeason
	}

	return Expand(tmpl, vals)
}
