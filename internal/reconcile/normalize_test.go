package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colortrainer/internal/taxonomy"
	"colortrainer/pkg/models"
)

func TestNormalizeSubtype(t *testing.T) {
	t.Run("explicit slug and season", func(t *testing.T) {
		up, from, err := NormalizeSubtype(map[string]any{
			"slug":       " true-winter ",
			"season":     "Winter",
			"name":       "True Winter",
			"key_colors": []any{"black", " ", map[string]any{"name": "icy pink"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "true-winter", up.Slug)
		assert.Equal(t, taxonomy.FromSeason, from)
		assert.Equal(t, "winter", up.Patch.String(taxonomy.ColSeason))
		assert.Equal(t, "True Winter", up.Patch.String(taxonomy.ColName))

		colors, ok := up.Patch.Get(taxonomy.ColKeyColors)
		require.True(t, ok)
		assert.Equal(t, []string{"black", "icy pink"}, colors)
	})

	t.Run("slug derived from name", func(t *testing.T) {
		up, _, err := NormalizeSubtype(map[string]any{"name": "Soft Summer!", "season": "summer"})
		require.NoError(t, err)
		assert.Equal(t, "soft-summer", up.Slug)
	})

	t.Run("fall maps to autumn", func(t *testing.T) {
		up, from, err := NormalizeSubtype(map[string]any{"slug": "deep-fall", "season": "Deep Fall"})
		require.NoError(t, err)
		assert.Equal(t, "autumn", up.Patch.String(taxonomy.ColSeason))
		assert.Equal(t, taxonomy.FromSeason, from)
	})

	t.Run("season inferred from name", func(t *testing.T) {
		up, from, err := NormalizeSubtype(map[string]any{"slug": "x", "season": "???", "name": "Bright Winter"})
		require.NoError(t, err)
		assert.Equal(t, "winter", up.Patch.String(taxonomy.ColSeason))
		assert.Equal(t, taxonomy.FromName, from)
	})

	t.Run("season defaulted", func(t *testing.T) {
		up, from, err := NormalizeSubtype(map[string]any{"slug": "mystery"})
		require.NoError(t, err)
		assert.Equal(t, string(taxonomy.DefaultSeason), up.Patch.String(taxonomy.ColSeason))
		assert.Equal(t, taxonomy.FromDefault, from)
	})

	t.Run("absent fields stay out of the patch", func(t *testing.T) {
		up, _, err := NormalizeSubtype(map[string]any{"slug": "x", "name": "X", "description": "  "})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{taxonomy.ColName, taxonomy.ColSeason}, up.Patch.Columns())
	})

	t.Run("missing key", func(t *testing.T) {
		_, _, err := NormalizeSubtype(map[string]any{"season": "winter"})
		assert.ErrorIs(t, err, ErrMissingKey)
	})
}

func TestNormalizeTerm(t *testing.T) {
	t.Run("color keeps hex", func(t *testing.T) {
		up, err := NormalizeTerm(map[string]any{"term": "navy", "hex": "#000080", "label": "Navy"}, models.TermColor)
		require.NoError(t, err)
		assert.Equal(t, "navy", up.Term)
		assert.Equal(t, models.TermColor, up.Category)
		assert.Equal(t, "#000080", up.Patch.String(taxonomy.ColHexCode))
		assert.Equal(t, "Navy", up.Patch.String(taxonomy.ColName))
	})

	t.Run("non-color drops hex", func(t *testing.T) {
		up, err := NormalizeTerm(map[string]any{"slug": "velvet", "hex_code": "#111111"}, models.TermFabric)
		require.NoError(t, err)
		assert.Equal(t, "velvet", up.Term)
		_, has := up.Patch.Get(taxonomy.ColHexCode)
		assert.False(t, has)
	})

	t.Run("term from name", func(t *testing.T) {
		up, err := NormalizeTerm(map[string]any{"name": "Art Deco", "related": []any{"1920s"}}, models.TermEra)
		require.NoError(t, err)
		assert.Equal(t, "art-deco", up.Term)
		assert.Equal(t, "Art Deco", up.InsertName())
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NormalizeTerm(map[string]any{"hex": "#fff"}, models.TermColor)
		assert.ErrorIs(t, err, ErrMissingKey)
	})
}

func TestRecordLabel(t *testing.T) {
	assert.Equal(t, "a", recordLabel(map[string]any{"slug": "a", "name": "b"}, 0))
	assert.Equal(t, "navy", recordLabel(map[string]any{"term": "navy"}, 0))
	assert.Equal(t, "#3", recordLabel(map[string]any{"hex": "#fff"}, 3))
}
