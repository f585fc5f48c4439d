package renamer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/tvrename/internal/parse"
	"github.com/Nomadcxx/tvrename/internal/transform"
)

func TestExpand(t *testing.T) {
	vals := map[string]interface{}{
		"seriesname":   "Scrubs",
		"seasonnumber": 1,
		"episode":      "01",
		"episodename":  "My First Day",
		"ext":          ".avi",
	}

	tests := []struct {
		tmpl string
		want string
	}{
		{
			"%(seriesname)s - [%(seasonnumber)02dx%(episode)s] - %(episodename)s%(ext)s",
			"Scrubs - [01x01] - My First Day.avi",
		},
		{
			// Aliases and %d applied to a numeric string capture.
			"%(seriesname)s - [%(season)02dx%(episode)02d] - %(title)s%(ext)s",
			"Scrubs - [01x01] - My First Day.avi",
		},
		{
			"100%% %(seriesname)s",
			"100% Scrubs",
		},
		{
			// Unknown keys render empty instead of failing.
			"%(seriesname)s%(bogus)s%(ext)s",
			"Scrubs.avi",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Expand(tt.tmpl, vals), "template %q", tt.tmpl)
	}
}

func TestFormatEpisodeNumbers(t *testing.T) {
	tests := []struct {
		nums []int
		want string
	}{
		{[]int{1}, "01"},
		{[]int{23}, "23"},
		{[]int{1, 2}, "01-02"},
		{[]int{1, 2, 3}, "01-03"},
		{[]int{1, 2, 4}, "01-02-04"},
		{[]int{3, 7}, "03-07"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEpisodeNumbers(tt.nums, "", ""), "nums %v", tt.nums)
	}
}

func mustParse(t *testing.T, filename string) *parse.Episode {
	t.Helper()
	p, err := parse.New(nil)
	require.NoError(t, err)
	ep, err := p.Parse(filename)
	require.NoError(t, err)
	return ep
}

func TestFilenameWithEnrichment(t *testing.T) {
	ep := mustParse(t, "scrubs.s01e01.avi")
	ep.SeriesName = "Scrubs"
	ep.EpisodeNames[1] = "My First Day"

	g := NewGenerator(Options{}, nil)
	assert.Equal(t, "Scrubs - [01x01] - My First Day.avi", g.Filename(ep))
}

func TestFilenameDegradesWithoutEnrichment(t *testing.T) {
	g := NewGenerator(Options{}, nil)

	tests := []struct {
		filename string
		want     string
	}{
		{"scrubs.s01e01.avi", "scrubs - [01x01].avi"},
		{"scrubs - e23.avi", "scrubs - [23].avi"},
		{"scrubs.2009.06.05.avi", "scrubs - [2009-06-05].avi"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Filename(mustParse(t, tt.filename)))
		})
	}
}

func TestFilenameMultiEpisode(t *testing.T) {
	ep := mustParse(t, "show.s01e01-e02.avi")
	ep.SeriesName = "Show"
	ep.EpisodeNames[1] = "Part One"
	ep.EpisodeNames[2] = "Part Two"

	g := NewGenerator(Options{}, nil)
	assert.Equal(t, "Show - [01x01-02] - Part One, Part Two.avi", g.Filename(ep))
}

func TestFilenameMultiEpisodePartialNamesDegrade(t *testing.T) {
	ep := mustParse(t, "show.s01e01-e02.avi")
	ep.SeriesName = "Show"
	ep.EpisodeNames[1] = "Part One" // no title for episode 2

	g := NewGenerator(Options{}, nil)
	assert.Equal(t, "Show - [01x01-02].avi", g.Filename(ep))
}

func TestFilenameDatedWithName(t *testing.T) {
	ep := mustParse(t, "tonight.show.2009.06.05.avi")
	ep.SeriesName = "The Tonight Show"
	ep.EpisodeName = "Ryan Seacrest"

	g := NewGenerator(Options{}, nil)
	assert.Equal(t, "The Tonight Show - [2009-06-05] - Ryan Seacrest.avi", g.Filename(ep))
}

func TestFilenameAppliesOutputStage(t *testing.T) {
	pipeline, err := transform.New(transform.Options{
		Lowercase:   true,
		WindowsSafe: true,
	})
	require.NoError(t, err)

	ep := mustParse(t, "scrubs.s01e01.avi")
	ep.SeriesName = "Scrubs"
	ep.EpisodeNames[1] = `My "First" Day`

	g := NewGenerator(Options{}, pipeline)
	assert.Equal(t, "scrubs - [01x01] - my first day.avi", g.Filename(ep))
}

func TestFilenameRoundTripsThroughParser(t *testing.T) {
	// The generator's own output must be re-parsable into an equivalent
	// identity shape.
	p, err := parse.New(nil)
	require.NoError(t, err)
	g := NewGenerator(Options{}, nil)

	for _, filename := range []string{
		"scrubs.s01e01.avi",
		"show.s01e01-e02.avi",
		"scrubs.2009.06.05.avi",
		"scrubs - e23.avi",
	} {
		t.Run(filename, func(t *testing.T) {
			first, err := p.Parse(filename)
			require.NoError(t, err)

			second, err := p.Parse(g.Filename(first))
			require.NoError(t, err)

			assert.Equal(t, first.Kind, second.Kind)
			assert.Equal(t, first.EpisodeNumbers, second.EpisodeNumbers)
			assert.Equal(t, first.SeasonNumber, second.SeasonNumber)
			assert.Equal(t, first.AirDate, second.AirDate)
		})
	}
}

func TestDestination(t *testing.T) {
	g := NewGenerator(Options{
		Destination:         "%(seriesname)s/Season %(seasonnumber)02d",
		DestinationDated:    "%(seriesname)s/%(year)d",
		DestinationNoSeason: "%(seriesname)s",
	}, nil)

	ep := mustParse(t, "scrubs.s01e01.avi")
	ep.SeriesName = "Scrubs"
	assert.Equal(t, "Scrubs/Season 01", g.Destination(ep))

	dated := mustParse(t, "show.2009.06.05.avi")
	dated.SeriesName = "Show"
	assert.Equal(t, "Show/2009", g.Destination(dated))

	noSeason := mustParse(t, "show - e23.avi")
	noSeason.SeriesName = "Show"
	assert.Equal(t, "Show", g.Destination(noSeason))
}

func TestDestinationSanitizesSubstitutions(t *testing.T) {
	pipeline, err := transform.New(transform.Options{WindowsSafe: true})
	require.NoError(t, err)

	g := NewGenerator(Options{
		Destination: "%(seriesname)s/Season %(seasonnumber)02d",
	}, pipeline)

	ep := mustParse(t, "show.s01e01.avi")
	ep.SeriesName = "Show: The Legend/Continues"
	// Per-field sanitization strips the separator so the series name
	// cannot add a path level.
	assert.Equal(t, "Show The LegendContinues/Season 01", g.Destination(ep))
}

func TestDestinationPrefersExistingAlternate(t *testing.T) {
	primary := t.TempDir()
	alt := t.TempDir()

	g := NewGenerator(Options{
		Destination:    primary + "/%(seriesname)s",
		DestinationAlt: alt,
	}, nil)

	ep := mustParse(t, "show.s01e01.avi")
	ep.SeriesName = "Show"
	assert.Equal(t, alt, g.Destination(ep))
}

func TestDestinationLowercase(t *testing.T) {
	g := NewGenerator(Options{
		Destination:          "%(seriesname)s/Season %(seasonnumber)02d",
		LowercaseDestination: true,
	}, nil)

	ep := mustParse(t, "show.s01e01.avi")
	ep.SeriesName = "The Show"
	assert.Equal(t, "the show/Season 01", g.Destination(ep))
}

func TestDestinationFilepathTemplateKeys(t *testing.T) {
	g := NewGenerator(Options{
		Destination: "/tv/%(seriesname)s/%(seriesname)s - %(episode)s - %(episodename)s%(ext)s",
	}, nil)

	ep := mustParse(t, "scrubs.s01e01.avi")
	ep.SeriesName = "Scrubs"
	ep.EpisodeNames[1] = "My First Day"

	// A destination template can address the full file path: title and
	// extension expand alongside the directory keys.
	assert.Equal(t, "/tv/Scrubs/Scrubs - 01 - My First Day.avi", g.Destination(ep))
}
