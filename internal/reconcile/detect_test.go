package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestDetect_FlatRecordsKeepOrder(t *testing.T) {
	payload := decode(t, `[
		{"slug":"true-winter","season":"winter","name":"True Winter"},
		{"slug":"soft-summer","season":"summer"},
		{"slug":"warm-autumn","season":"autumn","key_colors":["rust"]}
	]`)

	got, ok := Detect(payload, TaxonomyShape)
	require.True(t, ok)

	want := []map[string]any{
		{"slug": "true-winter", "season": "winter", "name": "True Winter"},
		{"slug": "soft-summer", "season": "summer"},
		{"slug": "warm-autumn", "season": "autumn", "key_colors": []any{"rust"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
	}
}

func TestDetect_GroupedRecordsAreFlattened(t *testing.T) {
	payload := decode(t, `[
		{"name":"Winter","subtypes":[
			{"slug":"crystal-winter","name":"Crystal Winter"},
			{"slug":"deep-winter","season":"autumn"}
		]},
		{"slug":"spring","types":[{"slug":"light-spring"}]},
		{"id":"summer","children":[]}
	]`)

	got, ok := Detect(payload, TaxonomyShape)
	require.True(t, ok)

	want := []map[string]any{
		{"slug": "crystal-winter", "name": "Crystal Winter", "season": "Winter"},
		{"slug": "deep-winter", "season": "autumn"},
		{"slug": "light-spring", "season": "spring"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
	}
	for _, rec := range got {
		assert.NotEmpty(t, rec["season"], "every grouped record carries a season")
	}
}

func TestDetect_GroupedDoesNotMutatePayload(t *testing.T) {
	payload := decode(t, `[{"name":"Winter","subtypes":[{"slug":"crystal-winter"}]}]`)

	_, ok := Detect(payload, TaxonomyShape)
	require.True(t, ok)

	child := payload.([]any)[0].(map[string]any)["subtypes"].([]any)[0].(map[string]any)
	_, has := child["season"]
	assert.False(t, has)
}

func TestDetect_RecordFieldAndEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		shape   Shape
		want    int
	}{
		{"subtypes field", `{"subtypes":[{"slug":"a","season":"spring"}]}`, TaxonomyShape, 1},
		{"seasons field grouped", `{"seasons":[{"name":"Summer","subtypes":[{"slug":"a"},{"slug":"b"}]}]}`, TaxonomyShape, 2},
		{"data envelope", `{"data":[{"slug":"a","season":"spring"}]}`, TaxonomyShape, 1},
		{"envelope with field", `{"result":{"items":[{"slug":"a","season":"spring"}]}}`, TaxonomyShape, 1},
		{"vocabulary plural", `{"colors":[{"term":"navy"},{"name":"Ivory"}]}`, VocabularyShape("colors"), 2},
		{"vocabulary flat", `[{"slug":"velvet"}]`, VocabularyShape("fabrics"), 1},
		{"vocabulary terms envelope", `{"payload":{"terms":[{"term":"baroque"}]}}`, VocabularyShape("eras"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Detect(decode(t, tt.payload), tt.shape)
			require.True(t, ok)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestDetect_Undetectable(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{"nil", nil},
		{"empty object", map[string]any{}},
		{"empty array", []any{}},
		{"unknown field", map[string]any{"foo": []any{map[string]any{"slug": "a", "season": "winter"}}}},
		{"scalar", "hello"},
		{"array of scalars", []any{"a", "b"}},
		{"flat without season", []any{map[string]any{"slug": "a"}}},
		{"double envelope", map[string]any{"data": map[string]any{"data": []any{map[string]any{"slug": "a", "season": "winter"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				got, ok := Detect(tt.payload, TaxonomyShape)
				assert.False(t, ok)
				assert.Nil(t, got)
			})
		})
	}
}

func TestDetect_RecoversFromPanickingShape(t *testing.T) {
	shape := Shape{IsRecord: func(map[string]any) bool { panic("boom") }}

	assert.NotPanics(t, func() {
		_, ok := Detect([]any{map[string]any{"slug": "a"}}, shape)
		assert.False(t, ok)
	})
}
