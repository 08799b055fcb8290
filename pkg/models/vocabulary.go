package models

import "time"

type TermCategory string

const (
	TermColor  TermCategory = "color"
	TermFabric TermCategory = "fabric"
	TermArtist TermCategory = "artist"
	TermEra    TermCategory = "era"
)

// TermCategories lists every category in a stable order.
var TermCategories = []TermCategory{TermColor, TermFabric, TermArtist, TermEra}

func (c TermCategory) Valid() bool {
	switch c {
	case TermColor, TermFabric, TermArtist, TermEra:
		return true
	}
	return false
}

// VocabularyTerm is a supplementary concept referenced by subtypes.
// (Term, Category) is unique.
type VocabularyTerm struct {
	ID           string       `json:"id"`
	Term         string       `json:"term"`
	Category     TermCategory `json:"category"`
	Name         string       `json:"name"`
	HexCode      string       `json:"hex_code,omitempty"` // colors only
	Description  string       `json:"description,omitempty"`
	RelatedTerms []string     `json:"related_terms"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
