package objects

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootIDIsAllZero(t *testing.T) {
	assert.True(t, RootID.IsRoot())
	assert.Equal(t, strings.Repeat("0", IDSize*2), RootID.String())
}

func TestParseIDRoundTrip(t *testing.T) {
	id := childID(0xAB)
	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseIDRejectsWrongLength(t *testing.T) {
	_, err := ParseID("abcd")
	assert.Error(t, err)
}

func TestParseIDRejectsNonHex(t *testing.T) {
	bad := make([]byte, IDSize*2)
	for i := range bad {
		bad[i] = 'z'
	}
	_, err := ParseID(string(bad))
	assert.Error(t, err)
}

func TestIDJSONRoundTrip(t *testing.T) {
	id := childID(0x42)
	raw, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded ID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded)
}
