package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"colortrainer/pkg/models"
)

// Scope selects which categories a sync run reconciles.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeTaxonomy Scope = "taxonomy"
	ScopeColors   Scope = "colors"
	ScopeFabrics  Scope = "fabrics"
	ScopeArtists  Scope = "artists"
	ScopeEras     Scope = "eras"
)

var ErrInvalidScope = errors.New("invalid sync scope")

// ParseScope accepts the five category scopes plus "all". Empty means all.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(strings.ToLower(strings.TrimSpace(s))); sc {
	case "":
		return ScopeAll, nil
	case ScopeAll, ScopeTaxonomy, ScopeColors, ScopeFabrics, ScopeArtists, ScopeEras:
		return sc, nil
	}
	return "", fmt.Errorf("%w: %q (want one of all, taxonomy, colors, fabrics, artists, eras)", ErrInvalidScope, s)
}

// category is one reconcilable slice of the Hub. Taxonomy categories have
// no term category; their paths are tried in order until one is recognized.
type category struct {
	name  string
	paths []string
	term  models.TermCategory
}

var categories = []category{
	{name: string(ScopeTaxonomy), paths: []string{"/seasons", "/methodology"}},
	{name: string(ScopeColors), paths: []string{"/colors"}, term: models.TermColor},
	{name: string(ScopeFabrics), paths: []string{"/fabrics"}, term: models.TermFabric},
	{name: string(ScopeArtists), paths: []string{"/artists"}, term: models.TermArtist},
	{name: string(ScopeEras), paths: []string{"/eras"}, term: models.TermEra},
}

func (c category) shape() Shape {
	if c.term == "" {
		return TaxonomyShape
	}
	return VocabularyShape(c.name)
}

func selectCategories(scope Scope) []category {
	if scope == ScopeAll {
		return categories
	}
	for _, c := range categories {
		if c.name == string(scope) {
			return []category{c}
		}
	}
	return nil
}

// SyncResult tallies one category of a run.
type SyncResult struct {
	Synced int      `json:"synced"`
	Errors []string `json:"errors"`
}

func newResult() *SyncResult {
	return &SyncResult{Errors: []string{}}
}

func (r *SyncResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// SyncResponse is returned to callers of a sync run. Success is false only
// when the run itself could not proceed; record failures live in Results.
type SyncResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Error   string                 `json:"error,omitempty"`
	RunID   string                 `json:"run_id,omitempty"`
	Results map[string]*SyncResult `json:"results,omitempty"`
}

// Total sums synced records across categories.
func (r *SyncResponse) Total() int {
	n := 0
	for _, res := range r.Results {
		n += res.Synced
	}
	return n
}
