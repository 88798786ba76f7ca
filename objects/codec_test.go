package objects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeDirectoryRoundTrip(t *testing.T) {
	child := ID{1}
	dir := &Directory{
		ID: ID{2},
		History: []DirectoryEvent{
			{Time: 10, Action: ActionRename, Name: "vault"},
			{Time: 20, Action: ActionAdd, Child: child},
		},
	}
	encoded, err := EncodeDirectory(dir)
	require.NoError(t, err)

	decoded, err := DecodeObject(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded.Directory)
	assert.Equal(t, dir.Materialize(), decoded.Directory.Materialize())
}

func TestEncodeDecodeEntryRoundTrip(t *testing.T) {
	pw := "hunter2"
	entry := &Entry{
		ID:          ID{9},
		TimeCreated: 5,
		History: []EntryEvent{
			{Time: 5, Data: map[string]*string{"title": strPtr("bank"), "password": &pw}},
		},
	}
	encoded, err := EncodeEntry(entry)
	require.NoError(t, err)

	decoded, err := DecodeObject(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded.Entry)
	assert.Equal(t, entry.Materialize(), decoded.Entry.Materialize())
}

func TestDecodeObjectPreservesUnknownTopLevelKeys(t *testing.T) {
	dir := &Directory{ID: ID{3}}
	encoded, err := EncodeDirectory(dir)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(encoded, &m))
	m["future_field"] = json.RawMessage(`"keep-me"`)
	withExtra, err := json.Marshal(m)
	require.NoError(t, err)

	decoded, err := DecodeObject(withExtra)
	require.NoError(t, err)
	require.NotNil(t, decoded.Directory.Extra)

	reEncoded, err := EncodeDirectory(decoded.Directory)
	require.NoError(t, err)

	var reEncodedMap map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(reEncoded, &reEncodedMap))
	assert.JSONEq(t, `"keep-me"`, string(reEncodedMap["future_field"]))
}

func TestDocumentRoundTrip(t *testing.T) {
	dirs := []*Directory{{ID: RootID, History: []DirectoryEvent{{Time: 1, Action: ActionRename, Name: "root"}}}}
	entries := []*Entry{{ID: ID{7}, TimeCreated: 1, History: []EntryEvent{{Time: 1, Data: map[string]*string{"title": strPtr("x")}}}}}

	meta := &Metadata{Username: "alice"}
	doc, err := EncodeDocument(meta, dirs, entries)
	require.NoError(t, err)

	gotMeta, gotDirs, gotEntries, err := DecodeDocument(doc)
	require.NoError(t, err)
	require.NotNil(t, gotMeta)
	assert.Equal(t, "alice", gotMeta.Username)
	require.Len(t, gotDirs, 1)
	require.Len(t, gotEntries, 1)
	assert.Equal(t, dirs[0].ID, gotDirs[0].ID)
	assert.Equal(t, entries[0].ID, gotEntries[0].ID)
}
