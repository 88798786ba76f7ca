package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDNeverReturnsRoot(t *testing.T) {
	id, err := NewID(Default)
	require.NoError(t, err)
	assert.False(t, id.IsRoot())
}

func TestStringRejectsLengthBelowOne(t *testing.T) {
	_, err := String(Default, 0, true, false, false, "")
	assert.Error(t, err)
}

func TestStringRejectsEmptyAlphabet(t *testing.T) {
	_, err := String(Default, 8, false, false, false, "")
	assert.Error(t, err)
}

func TestStringLengthAndAlphabet(t *testing.T) {
	s, err := String(Default, 24, true, true, true, "!@#")
	require.NoError(t, err)
	assert.Len(t, s, 24)

	allowed := upperAlphabet + lowerAlphabet + numberAlphabet + "!@#"
	for _, r := range s {
		assert.True(t, strings.ContainsRune(allowed, r), "unexpected rune %q", r)
	}
}

func TestStringOnlyOthers(t *testing.T) {
	s, err := String(Default, 10, false, false, false, "xy")
	require.NoError(t, err)
	assert.Len(t, s, 10)
	for _, r := range s {
		assert.True(t, r == 'x' || r == 'y')
	}
}
