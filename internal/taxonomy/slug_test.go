package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Crystal Winter":        "crystal-winter",
		"  Soft   Summer  ":     "soft-summer",
		"Deep-Autumn":           "deep-autumn",
		"Bright Spring (Warm)!": "bright-spring-warm",
		"Tab\tand\nnewline":     "tab-and-newline",
		"":                      "",
		"!!!":                   "",
		"Winter !":              "winter-",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestSlugify_Stable(t *testing.T) {
	s := Slugify("True Winter")
	assert.Equal(t, s, Slugify(s))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Crystal Winter", DisplayName("crystal-winter"))
	assert.Equal(t, "Art Deco", DisplayName("art_deco"))
	assert.Equal(t, "", DisplayName(""))
}
