package transform

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Articles, short prepositions and conjunctions that stay lower case in
// titles unless they lead.
var minorWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"but": true, "by": true, "en": true, "for": true, "if": true,
	"in": true, "nor": true, "of": true, "on": true, "or": true,
	"per": true, "the": true, "to": true, "v": true, "via": true,
	"vs": true,
}

// TitleCase capitalizes each word except minor words (articles, short
// prepositions, conjunctions). The first word is always capitalized.
func TitleCase(s string) string {
	// cases.Caser is a stateful transformer, so it cannot be shared
	// across goroutines; construct one per call.
	caser := cases.Title(language.English)

	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		// Words with internal dots (extensions, domains) pass through.
		if strings.Contains(strings.Trim(w, "."), ".") {
			continue
		}
		lower := strings.ToLower(w)
		if i > 0 && minorWords[strings.Trim(lower, ".,")] {
			words[i] = lower
			continue
		}
		words[i] = caser.String(lower)
	}
	return strings.Join(words, " ")
}
