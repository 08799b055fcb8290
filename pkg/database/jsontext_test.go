package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeValue(t *testing.T) {
	v, err := EncodeValue("navy")
	require.NoError(t, err)
	assert.Equal(t, "navy", v)

	v, err = EncodeValue([]string{"red", "gold"})
	require.NoError(t, err)
	assert.Equal(t, `["red","gold"]`, v)

	v, err = EncodeValue([]string(nil))
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	_, err = EncodeValue(42)
	assert.Error(t, err)
}

func TestDecodeStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, DecodeStrings(`["a","b"]`))
	assert.Equal(t, []string{}, DecodeStrings(""))
	assert.Equal(t, []string{}, DecodeStrings("null"))
	assert.Equal(t, []string{}, DecodeStrings("{oops"))
}
