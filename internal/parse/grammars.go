package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Grammar names. The default order below is the tie-break for filenames
// matching more than one grammar; reordering is configuration-visible and
// deliberate (see Parser WithGrammarOrder).
const (
	GrammarSeasonEpisodeSpan = "season-episode-span"
	GrammarSeasonEpisode     = "season-episode"
	GrammarDateYMD           = "date-ymd"
	GrammarDateDMY           = "date-dmy"
	GrammarDateDMYShort      = "date-dmy-short"
	GrammarEpisodeOnly       = "episode-only"
	GrammarAbsoluteEpisode   = "absolute-episode"
)

// DefaultGrammarOrder returns the built-in grammar priority, highest first.
func DefaultGrammarOrder() []string {
	return []string{
		GrammarSeasonEpisodeSpan,
		GrammarSeasonEpisode,
		GrammarDateYMD,
		GrammarDateDMY,
		GrammarDateDMYShort,
		GrammarEpisodeOnly,
		GrammarAbsoluteEpisode,
	}
}

// grammar is a named filename pattern plus the rule that builds an episode
// identity from its captures. A build error (e.g. an impossible calendar
// date) is treated as a non-match so later grammars still get a chance.
type grammar struct {
	name  string
	re    *regexp.Regexp
	build func(p *Parser, g map[string]string) (*Episode, error)
}

var (
	// Multi-episode span: s01e01e02, s01e01-e02, s01e01-02, 1x01-02.
	spanRe = regexp.MustCompile(`(?i)^(?P<series>.*?)(?:[\s._\[-]*s(?P<season>\d{1,4})[\s._-]*e|(?:^|[\s._\[-])(?P<seasonx>\d{1,2})x)(?P<episodes>\d{1,3}(?:[\s._-]*(?:[+&-][\s._-]*e|[e+&-])[\s._-]*\d{1,3})+)(?:[^\d]|$)`)

	// Single season/episode: s01e01, S2010E01, 1x01.
	seasonEpisodeRe = regexp.MustCompile(`(?i)^(?P<series>.*?)(?:[\s._\[-]*s(?P<season>\d{1,4})[\s._-]*e|(?:^|[\s._\[-])(?P<seasonx>\d{1,2})x)(?P<episode>\d{1,3})(?:[^\d]|$)`)

	// Date stamps: 2009.06.05, 05.06.2009 and the two-digit-year 05.06.09.
	dateYMDRe      = regexp.MustCompile(`^(?P<series>.*?)(?:^|[\s._\[-])(?P<year>(?:19|20)\d{2})[\s._-](?P<month>[0-1]?\d)[\s._-](?P<day>[0-3]?\d)(?:[^\d]|$)`)
	dateDMYRe      = regexp.MustCompile(`^(?P<series>.*?)(?:^|[\s._\[-])(?P<day>[0-3]?\d)[\s._-](?P<month>[0-1]?\d)[\s._-](?P<year>(?:19|20)\d{2})(?:[^\d]|$)`)
	dateDMYShortRe = regexp.MustCompile(`^(?P<series>.*?)(?:^|[\s._\[-])(?P<day>[0-3]?\d)[\s._-](?P<month>[0-1]?\d)[\s._-](?P<year>\d{2})(?:[^\d]|$)`)

	// Episode number with no season: "show - e23", "show episode 5".
	episodeOnlyRe = regexp.MustCompile(`(?i)^(?P<series>.*?)(?:^|[\s._\[-])e(?:p(?:isode)?)?[\s._-]*(?P<episode>\d{1,3})(?:[^\d]|$)`)

	// Bare trailing number, treated as absolute numbering: "show - 123".
	absoluteRe = regexp.MustCompile(`^(?P<series>.+?)[\s._\[-]+(?P<episode>\d{1,3})[\]\s._-]*$`)

	episodeDigitsRe = regexp.MustCompile(`\d{1,3}`)
	leadingTagRe    = regexp.MustCompile(`^\[[^\]]*\][\s._-]*`)
	wordDotWordRe   = regexp.MustCompile(`(\w)\.(\w)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

func allGrammars() map[string]grammar {
	return map[string]grammar{
		GrammarSeasonEpisodeSpan: {
			name: GrammarSeasonEpisodeSpan,
			re:   spanRe,
			build: func(_ *Parser, g map[string]string) (*Episode, error) {
				season, err := captureSeason(g)
				if err != nil {
					return nil, err
				}
				var episodes []int
				for _, num := range episodeDigitsRe.FindAllString(g["episodes"], -1) {
					n, err := strconv.Atoi(num)
					if err != nil {
						return nil, err
					}
					episodes = append(episodes, n)
				}
				return NewSeasonEpisode(g["series"], season, episodes)
			},
		},
		GrammarSeasonEpisode: {
			name: GrammarSeasonEpisode,
			re:   seasonEpisodeRe,
			build: func(_ *Parser, g map[string]string) (*Episode, error) {
				season, err := captureSeason(g)
				if err != nil {
					return nil, err
				}
				episode, err := strconv.Atoi(g["episode"])
				if err != nil {
					return nil, err
				}
				return NewSeasonEpisode(g["series"], season, []int{episode})
			},
		},
		GrammarDateYMD: {
			name:  GrammarDateYMD,
			re:    dateYMDRe,
			build: buildDated,
		},
		GrammarDateDMY: {
			name:  GrammarDateDMY,
			re:    dateDMYRe,
			build: buildDated,
		},
		GrammarDateDMYShort: {
			name: GrammarDateDMYShort,
			re:   dateDMYShortRe,
			build: func(p *Parser, g map[string]string) (*Episode, error) {
				year, err := ResolveYear(g["year"], p.now())
				if err != nil {
					return nil, err
				}
				month, _ := strconv.Atoi(g["month"])
				day, _ := strconv.Atoi(g["day"])
				return NewDatedEpisode(g["series"], Date{Year: year, Month: month, Day: day})
			},
		},
		GrammarEpisodeOnly: {
			name:  GrammarEpisodeOnly,
			re:    episodeOnlyRe,
			build: buildNoSeason,
		},
		GrammarAbsoluteEpisode: {
			name:  GrammarAbsoluteEpisode,
			re:    absoluteRe,
			build: buildNoSeason,
		},
	}
}

func buildDated(_ *Parser, g map[string]string) (*Episode, error) {
	year, _ := strconv.Atoi(g["year"])
	month, _ := strconv.Atoi(g["month"])
	day, _ := strconv.Atoi(g["day"])
	return NewDatedEpisode(g["series"], Date{Year: year, Month: month, Day: day})
}

func buildNoSeason(_ *Parser, g map[string]string) (*Episode, error) {
	episode, err := strconv.Atoi(g["episode"])
	if err != nil {
		return nil, err
	}
	return NewNoSeasonEpisode(g["series"], []int{episode})
}

// captureSeason reads whichever of the two season capture groups matched.
func captureSeason(g map[string]string) (int, error) {
	s := g["season"]
	if s == "" {
		s = g["seasonx"]
	}
	return strconv.Atoi(s)
}

// cleanSeriesName turns the raw prefix capture into a usable series name:
// leading release-group tags are dropped, dot and underscore separators
// become spaces, and whitespace collapses.
func cleanSeriesName(s string) string {
	s = leadingTagRe.ReplaceAllString(s, "")
	// Two passes: non-overlapping replacement misses every other dot in
	// runs like "a.b.c".
	s = wordDotWordRe.ReplaceAllString(s, "$1 $2")
	s = wordDotWordRe.ReplaceAllString(s, "$1 $2")
	s = strings.ReplaceAll(s, "_", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.Trim(s, " -[(.")
}
