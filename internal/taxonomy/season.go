// Package taxonomy holds the canonical vocabulary of the color taxonomy:
// the four seasons, slug rules and the field policy used when merging
// remote records into local ones.
package taxonomy

import "strings"

type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// DefaultSeason is assigned when neither the season string nor the
// display name mention a season.
const DefaultSeason = Winter

// Seasons lists the canonical seasons in display order.
var Seasons = []Season{Spring, Summer, Autumn, Winter}

// SeasonSource tells where a normalized season came from.
type SeasonSource string

const (
	FromSeason  SeasonSource = "season"
	FromName    SeasonSource = "name"
	FromDefault SeasonSource = "default"
)

// seasonKeywords is matched in order; "fall" is the only synonym.
var seasonKeywords = []struct {
	keyword string
	season  Season
}{
	{"spring", Spring},
	{"summer", Summer},
	{"autumn", Autumn},
	{"fall", Autumn},
	{"winter", Winter},
}

func (s Season) Valid() bool {
	switch s {
	case Spring, Summer, Autumn, Winter:
		return true
	}
	return false
}

// NormalizeSeason maps a free-form season string to a canonical season,
// falling back to the display name and then to DefaultSeason.
func NormalizeSeason(season, name string) Season {
	s, _ := InferSeason(season, name)
	return s
}

// InferSeason is NormalizeSeason that also reports which input decided.
func InferSeason(season, name string) (Season, SeasonSource) {
	if s, ok := matchSeason(season); ok {
		return s, FromSeason
	}
	if s, ok := matchSeason(name); ok {
		return s, FromName
	}
	return DefaultSeason, FromDefault
}

func matchSeason(raw string) (Season, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", false
	}
	for _, k := range seasonKeywords {
		if strings.Contains(v, k.keyword) {
			return k.season, true
		}
	}
	return "", false
}
