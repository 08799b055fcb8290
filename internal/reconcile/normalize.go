package reconcile

import (
	"errors"
	"strconv"
	"strings"

	"colortrainer/internal/taxonomy"
	"colortrainer/pkg/models"
)

// ErrMissingKey is returned for records that carry no usable identifier.
var ErrMissingKey = errors.New("record has no slug or name")

// NormalizeSubtype maps a detected remote record onto a selective upsert.
// The returned SeasonSource tells whether the season had to be guessed.
func NormalizeSubtype(raw map[string]any) (taxonomy.SubtypeUpsert, taxonomy.SeasonSource, error) {
	patch := taxonomy.BuildPatch(raw, taxonomy.SubtypeFields)

	name := patch.String(taxonomy.ColName)
	slug := strings.TrimSpace(stringField(raw, "slug"))
	if slug == "" {
		slug = taxonomy.Slugify(name)
	}
	if slug == "" {
		return taxonomy.SubtypeUpsert{}, "", ErrMissingKey
	}

	season, from := taxonomy.InferSeason(stringField(raw, "season"), name)
	patch = patch.Set(taxonomy.ColSeason, string(season))

	return taxonomy.SubtypeUpsert{Slug: slug, Patch: patch}, from, nil
}

// NormalizeTerm maps a detected remote record onto a vocabulary upsert.
// Hex codes are only kept for colors.
func NormalizeTerm(raw map[string]any, category models.TermCategory) (taxonomy.TermUpsert, error) {
	patch := taxonomy.BuildPatch(raw, taxonomy.TermFields)
	if category != models.TermColor {
		patch = without(patch, taxonomy.ColHexCode)
	}

	term := strings.TrimSpace(stringField(raw, "term"))
	if term == "" {
		term = strings.TrimSpace(stringField(raw, "slug"))
	}
	if term == "" {
		term = taxonomy.Slugify(patch.String(taxonomy.ColName))
	}
	if term == "" {
		return taxonomy.TermUpsert{}, ErrMissingKey
	}

	return taxonomy.TermUpsert{Term: term, Category: category, Patch: patch}, nil
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func without(p taxonomy.Patch, column string) taxonomy.Patch {
	out := p[:0:0]
	for _, f := range p {
		if f.Column != column {
			out = append(out, f)
		}
	}
	return out
}

// recordLabel identifies a raw record in error messages.
func recordLabel(raw map[string]any, index int) string {
	for _, k := range []string{"slug", "term", "name"} {
		if s := strings.TrimSpace(stringField(raw, k)); s != "" {
			return s
		}
	}
	return "#" + strconv.Itoa(index)
}
