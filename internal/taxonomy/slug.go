package taxonomy

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpace = regexp.MustCompile(`\s+`)
)

// Slugify derives a stable identifier from a display name:
// lowercase, trimmed, anything outside [a-z0-9 whitespace -] removed and
// whitespace runs collapsed into a single hyphen.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = slugStrip.ReplaceAllString(s, "")
	return slugSpace.ReplaceAllString(s, "-")
}

// DisplayName turns a slug back into a readable title,
// e.g. "crystal-winter" -> "Crystal Winter".
func DisplayName(slug string) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
	return cases.Title(language.English).String(strings.Join(words, " "))
}
