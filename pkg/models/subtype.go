package models

import "time"

// Subtype is a named color classification belonging to exactly one season.
// Slug is the stable identifier and the conflict key for upserts.
type Subtype struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Season        string    `json:"season"`
	Description   string    `json:"description,omitempty"`
	PaletteEffect string    `json:"palette_effect,omitempty"`
	KeyColors     []string  `json:"key_colors"`
	AvoidColors   []string  `json:"avoid_colors"`
	FabricsBest   []string  `json:"fabrics_best"`
	FabricsGood   []string  `json:"fabrics_good"`
	FabricsAvoid  []string  `json:"fabrics_avoid"`
	PrintTypes    []string  `json:"print_types"`
	Silhouettes   []string  `json:"silhouette_types"`
	JewelryMetals []string  `json:"jewelry_metals"`
	JewelryStones []string  `json:"jewelry_stones"`
	JewelryStyles []string  `json:"jewelry_styles"`
	EraTags       []string  `json:"era_tags"`
	Artists       []string  `json:"artists"`
	Designers     []string  `json:"designers"`
	MakeupRegions []string  `json:"makeup_regions"`
	Suitability   []string  `json:"suitability_tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
