package transform

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Characters that can never appear in a filename on any supported
// filesystem. Path separators and NUL.
const alwaysIllegal = "/\x00"

// Windows reserved characters, in addition to alwaysIllegal.
const windowsIllegal = `\:*?"<>|`

// MakeValidFilename strips characters illegal in the target filesystem,
// substituting replaceWith for each. windowsSafe extends the illegal set
// with the Windows reserved characters and control characters. blacklist
// adds caller-chosen characters. The replacement string is itself
// sanitized first so it can never reintroduce an illegal character.
func MakeValidFilename(name string, windowsSafe bool, blacklist, replaceWith string) string {
	illegal := alwaysIllegal + blacklist
	if windowsSafe {
		illegal += windowsIllegal
	}

	isIllegal := func(r rune) bool {
		if strings.ContainsRune(illegal, r) {
			return true
		}
		return windowsSafe && r < 0x20
	}

	// Scrub the replacement text so sanitization cannot loop.
	if strings.ContainsFunc(replaceWith, isIllegal) {
		var rb strings.Builder
		for _, r := range replaceWith {
			if !isIllegal(r) {
				rb.WriteRune(r)
			}
		}
		replaceWith = rb.String()
	}

	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if isIllegal(r) {
			sb.WriteString(replaceWith)
			continue
		}
		sb.WriteRune(r)
	}
	out := sb.String()

	if windowsSafe {
		// Windows rejects names ending in a dot or space.
		out = strings.TrimRight(out, ". ")
	}

	return out
}

// StripDiacritics decomposes accented characters and drops the combining
// marks, e.g. "Café" becomes "Cafe".
func StripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var sb strings.Builder
	sb.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
