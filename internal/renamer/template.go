// Package renamer turns enriched episode identities back into normalized
// filenames and destination paths, and performs the filesystem mutation.
package renamer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Templates use printf-style named placeholders: %(seriesname)s,
// %(seasonnumber)02d, %(episode)s, %(episodename)s, %(date)s, %(year)d,
// %(month)d, %(day)d, %(originalfilename)s, %(ext)s. %% is a literal
// percent sign.
var placeholderRe = regexp.MustCompile(`%(?:%|\((\w+)\)(\d*)([sd]))`)

// Aliases accepted in user templates for the canonical placeholder keys.
var keyAliases = map[string]string{
	"season": "seasonnumber",
	"title":  "episodename",
}

// Expand substitutes named placeholders into tmpl. Missing keys render
// empty rather than failing, so templates referencing absent enrichment
// data degrade gracefully.
func Expand(tmpl string, vals map[string]interface{}) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(ph string) string {
		if ph == "%%" {
			return "%"
		}
		m := placeholderRe.FindStringSubmatch(ph)
		key, width, verb := m[1], m[2], m[3]
		if canonical, ok := keyAliases[key]; ok {
			key = canonical
		}

		v, ok := vals[key]
		if !ok {
			return ""
		}

		if verb == "d" {
			n, ok := toInt(v)
			if !ok {
				return fmt.Sprintf("%v", v)
			}
			if width != "" {
				w, _ := strconv.Atoi(width)
				return fmt.Sprintf("%0*d", w, n)
			}
			return strconv.Itoa(n)
		}
		return fmt.Sprintf("%v", v)
	})
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
