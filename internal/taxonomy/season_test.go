package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSeason(t *testing.T) {
	tests := []struct {
		name     string
		season   string
		display  string
		want     Season
		wantFrom SeasonSource
	}{
		{"canonical spring", "spring", "", Spring, FromSeason},
		{"mixed case and padding", "  Summer ", "", Summer, FromSeason},
		{"fall synonym", "Fall", "", Autumn, FromSeason},
		{"fall inside a phrase", "deep fall", "", Autumn, FromSeason},
		{"autumn spelling", "AUTUMN", "", Autumn, FromSeason},
		{"garbage season uses name", "xyz", "Crystal Winter", Winter, FromName},
		{"missing season uses name", "", "Light Spring", Spring, FromName},
		{"season beats name", "summer", "Deep Winter", Summer, FromSeason},
		{"nothing matches", "", "Mystery", DefaultSeason, FromDefault},
		{"all empty", "", "", DefaultSeason, FromDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, from := InferSeason(tt.season, tt.display)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.want, NormalizeSeason(tt.season, tt.display))
		})
	}
}

func TestNormalizeSeason_Idempotent(t *testing.T) {
	for _, s := range Seasons {
		once := NormalizeSeason(string(s), "")
		assert.Equal(t, s, once)
		assert.Equal(t, once, NormalizeSeason(string(once), ""))
	}
}

func TestSeasonValid(t *testing.T) {
	assert.True(t, Winter.Valid())
	assert.False(t, Season("fall").Valid())
	assert.False(t, Season("").Valid())
}
