package taxonomy

import (
	"strings"

	"colortrainer/pkg/models"
)

// Policy decides when a remote value may replace the stored one.
type Policy int

const (
	// OverwriteIfNonEmptyString writes scalar text only when it is non-empty after trimming.
	OverwriteIfNonEmptyString Policy = iota
	// OverwriteIfArray writes a string set only when the remote value is an array.
	OverwriteIfArray
	// AlwaysOverwrite writes the value whether or not the remote supplied it.
	AlwaysOverwrite
)

func (p Policy) String() string {
	switch p {
	case OverwriteIfNonEmptyString:
		return "overwrite-if-nonempty-string"
	case OverwriteIfArray:
		return "overwrite-if-array"
	case AlwaysOverwrite:
		return "always-overwrite"
	}
	return "unknown"
}

// FieldRule binds a store column to the remote keys that may feed it.
// Keys are tried in order; the first key present in the record wins.
type FieldRule struct {
	Column string
	Keys   []string
	Policy Policy
}

// Subtype columns.
const (
	ColName          = "name"
	ColSeason        = "season"
	ColDescription   = "description"
	ColPaletteEffect = "palette_effect"
	ColKeyColors     = "key_colors"
	ColAvoidColors   = "avoid_colors"
	ColFabricsBest   = "fabrics_best"
	ColFabricsGood   = "fabrics_good"
	ColFabricsAvoid  = "fabrics_avoid"
	ColPrintTypes    = "print_types"
	ColSilhouettes   = "silhouette_types"
	ColJewelryMetals = "jewelry_metals"
	ColJewelryStones = "jewelry_stones"
	ColJewelryStyles = "jewelry_styles"
	ColEraTags       = "era_tags"
	ColArtists       = "artists"
	ColDesigners     = "designers"
	ColMakeupRegions = "makeup_regions"
	ColSuitability   = "suitability_tags"
)

// Vocabulary term columns.
const (
	ColHexCode      = "hex_code"
	ColRelatedTerms = "related_terms"
)

// SubtypeFields is the merge policy for subtypes. The season column is
// always rewritten because the normalizer always produces a canonical value.
var SubtypeFields = []FieldRule{
	{ColName, []string{"name", "display_name", "title"}, OverwriteIfNonEmptyString},
	{ColSeason, []string{"season"}, AlwaysOverwrite},
	{ColDescription, []string{"description", "summary"}, OverwriteIfNonEmptyString},
	{ColPaletteEffect, []string{"palette_effect", "palette_effect_label", "effect"}, OverwriteIfNonEmptyString},
	{ColKeyColors, []string{"key_colors", "best_colors", "colors"}, OverwriteIfArray},
	{ColAvoidColors, []string{"avoid_colors", "colors_to_avoid"}, OverwriteIfArray},
	{ColFabricsBest, []string{"fabrics_best", "best_fabrics"}, OverwriteIfArray},
	{ColFabricsGood, []string{"fabrics_good", "good_fabrics"}, OverwriteIfArray},
	{ColFabricsAvoid, []string{"fabrics_avoid", "avoid_fabrics"}, OverwriteIfArray},
	{ColPrintTypes, []string{"print_types", "prints"}, OverwriteIfArray},
	{ColSilhouettes, []string{"silhouette_types", "silhouettes"}, OverwriteIfArray},
	{ColJewelryMetals, []string{"jewelry_metals", "metals"}, OverwriteIfArray},
	{ColJewelryStones, []string{"jewelry_stones", "stones"}, OverwriteIfArray},
	{ColJewelryStyles, []string{"jewelry_styles"}, OverwriteIfArray},
	{ColEraTags, []string{"era_tags", "eras"}, OverwriteIfArray},
	{ColArtists, []string{"artists"}, OverwriteIfArray},
	{ColDesigners, []string{"designers"}, OverwriteIfArray},
	{ColMakeupRegions, []string{"makeup_regions"}, OverwriteIfArray},
	{ColSuitability, []string{"suitability_tags", "suitability"}, OverwriteIfArray},
}

// TermFields is the merge policy for vocabulary terms.
var TermFields = []FieldRule{
	{ColName, []string{"name", "display_name", "label"}, OverwriteIfNonEmptyString},
	{ColHexCode, []string{"hex_code", "hex", "hex_value", "color_hex"}, OverwriteIfNonEmptyString},
	{ColDescription, []string{"description", "summary"}, OverwriteIfNonEmptyString},
	{ColRelatedTerms, []string{"related_terms", "related", "related_slugs"}, OverwriteIfArray},
}

// Field is one column assignment of a Patch. Value is a string or []string.
type Field struct {
	Column string
	Value  any
}

// Patch is an ordered set of column assignments. Columns absent from the
// patch are never written, so stored values for them survive.
type Patch []Field

func (p Patch) Get(column string) (any, bool) {
	for _, f := range p {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

func (p Patch) String(column string) string {
	v, _ := p.Get(column)
	s, _ := v.(string)
	return s
}

// Set replaces the column if present, otherwise appends it.
func (p Patch) Set(column string, value any) Patch {
	for i := range p {
		if p[i].Column == column {
			p[i].Value = value
			return p
		}
	}
	return append(p, Field{Column: column, Value: value})
}

func (p Patch) Columns() []string {
	cols := make([]string, len(p))
	for i, f := range p {
		cols[i] = f.Column
	}
	return cols
}

// BuildPatch applies the rules to a decoded remote record.
func BuildPatch(raw map[string]any, rules []FieldRule) Patch {
	var p Patch
	for _, r := range rules {
		v, ok := lookup(raw, r.Keys)
		switch r.Policy {
		case OverwriteIfNonEmptyString:
			if s, isStr := v.(string); ok && isStr && strings.TrimSpace(s) != "" {
				p = append(p, Field{r.Column, strings.TrimSpace(s)})
			}
		case OverwriteIfArray:
			if arr, isArr := v.([]any); ok && isArr {
				p = append(p, Field{r.Column, StringSet(arr)})
			}
		case AlwaysOverwrite:
			s, _ := v.(string)
			p = append(p, Field{r.Column, strings.TrimSpace(s)})
		}
	}
	return p
}

func lookup(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// StringSet converts a decoded JSON array into a list of strings. Objects
// contribute their "name" or "slug"; other element types are dropped.
func StringSet(arr []any) []string {
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		var s string
		switch v := el.(type) {
		case string:
			s = v
		case map[string]any:
			if n, ok := v["name"].(string); ok {
				s = n
			} else if n, ok := v["slug"].(string); ok {
				s = n
			}
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ApplySubtype merges a patch into an existing subtype. Unknown columns are ignored.
func ApplySubtype(st models.Subtype, p Patch) models.Subtype {
	for _, f := range p {
		switch v := f.Value.(type) {
		case string:
			switch f.Column {
			case ColName:
				st.Name = v
			case ColSeason:
				st.Season = v
			case ColDescription:
				st.Description = v
			case ColPaletteEffect:
				st.PaletteEffect = v
			}
		case []string:
			if dst := subtypeSet(&st, f.Column); dst != nil {
				*dst = append([]string{}, v...)
			}
		}
	}
	return st
}

// subtypeSet returns a pointer to the string-set field backing column.
func subtypeSet(st *models.Subtype, column string) *[]string {
	switch column {
	case ColKeyColors:
		return &st.KeyColors
	case ColAvoidColors:
		return &st.AvoidColors
	case ColFabricsBest:
		return &st.FabricsBest
	case ColFabricsGood:
		return &st.FabricsGood
	case ColFabricsAvoid:
		return &st.FabricsAvoid
	case ColPrintTypes:
		return &st.PrintTypes
	case ColSilhouettes:
		return &st.Silhouettes
	case ColJewelryMetals:
		return &st.JewelryMetals
	case ColJewelryStones:
		return &st.JewelryStones
	case ColJewelryStyles:
		return &st.JewelryStyles
	case ColEraTags:
		return &st.EraTags
	case ColArtists:
		return &st.Artists
	case ColDesigners:
		return &st.Designers
	case ColMakeupRegions:
		return &st.MakeupRegions
	case ColSuitability:
		return &st.Suitability
	}
	return nil
}

// SetField points at one string-set field of a subtype.
type SetField struct {
	Column string
	Ptr    *[]string
}

// SubtypeSets returns the string-set fields of st in policy-table order.
// Stores use it to scan or serialize every array column.
func SubtypeSets(st *models.Subtype) []SetField {
	var out []SetField
	for _, r := range SubtypeFields {
		if r.Policy != OverwriteIfArray {
			continue
		}
		out = append(out, SetField{Column: r.Column, Ptr: subtypeSet(st, r.Column)})
	}
	return out
}

// ApplyTerm merges a patch into an existing vocabulary term.
func ApplyTerm(t models.VocabularyTerm, p Patch) models.VocabularyTerm {
	for _, f := range p {
		switch v := f.Value.(type) {
		case string:
			switch f.Column {
			case ColName:
				t.Name = v
			case ColHexCode:
				t.HexCode = v
			case ColDescription:
				t.Description = v
			}
		case []string:
			if f.Column == ColRelatedTerms {
				t.RelatedTerms = append([]string{}, v...)
			}
		}
	}
	return t
}
