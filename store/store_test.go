package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironvault-project/ironvault/ironerr"
	"github.com/ironvault-project/ironvault/objects"
	"github.com/ironvault-project/ironvault/primitives"
)

func fastParamsOption() Option {
	return func(db *Database) {
		db.scryptParams = primitives.ScryptParams{LogN: 10, R: 8, P: 1}
	}
}

func TestCreateSaveOpenRoundTrip(t *testing.T) {
	db, err := CreateDatabase("alice", "correct horse battery staple", fastParamsOption())
	require.NoError(t, err)

	entryID, err := db.EditEntry(nil, map[string]*string{
		"title":    strPtr("gmail"),
		"username": strPtr("a@x"),
		"password": strPtr("p1"),
	}, objects.RootID)
	require.NoError(t, err)

	saved, err := db.Save()
	require.NoError(t, err)

	reopened, err := Open(saved, "correct horse battery staple")
	require.NoError(t, err)

	var found *objects.Entry
	for _, e := range reopened.ListEntries() {
		if e.ID == entryID {
			found = e
		}
	}
	require.NotNil(t, found)
	state := found.Materialize()
	assert.Equal(t, "gmail", state["title"])
	assert.Equal(t, "a@x", state["username"])
	assert.Equal(t, "p1", state["password"])

	_, err = Open(saved, "wrong")
	assert.True(t, ironerr.Is(err, ironerr.KindWrongPassphrase))
}

func TestMoveObjectUpdatesChildrenBothSides(t *testing.T) {
	db, err := CreateDatabase("alice", "pw", fastParamsOption())
	require.NoError(t, err)

	dirID, err := db.NewDirectory("D")
	require.NoError(t, err)

	entryID, err := db.EditEntry(nil, map[string]*string{"title": strPtr("x")}, objects.RootID)
	require.NoError(t, err)

	require.NoError(t, db.MoveObject(entryID, dirID))

	root := mustDirectory(t, db, objects.RootID)
	dir := mustDirectory(t, db, dirID)

	_, rootHasEntry := root.Materialize().Children[entryID]
	_, dirHasEntry := dir.Materialize().Children[entryID]
	assert.False(t, rootHasEntry)
	assert.True(t, dirHasEntry)

	var addToRoot, removeFromRoot, addToDir int
	for _, ev := range root.History {
		if ev.Child == entryID {
			if ev.Action == objects.ActionAdd {
				addToRoot++
			}
			if ev.Action == objects.ActionRemove {
				removeFromRoot++
			}
		}
	}
	for _, ev := range dir.History {
		if ev.Child == entryID && ev.Action == objects.ActionAdd {
			addToDir++
		}
	}
	assert.Equal(t, 1, addToRoot)
	assert.Equal(t, 1, removeFromRoot)
	assert.Equal(t, 1, addToDir)
}

func TestOpenDetectsCorruption(t *testing.T) {
	db, err := CreateDatabase("alice", "pw", fastParamsOption())
	require.NoError(t, err)
	saved, err := db.Save()
	require.NoError(t, err)

	tamperedChecksum := append([]byte(nil), saved...)
	tamperedChecksum[len(tamperedChecksum)-1] ^= 0xFF
	_, err = Open(tamperedChecksum, "pw")
	assert.True(t, ironerr.Is(err, ironerr.KindCorruption))
}

func TestRootAlwaysExistsAfterMutations(t *testing.T) {
	db, err := CreateDatabase("alice", "pw", fastParamsOption())
	require.NoError(t, err)

	_, err = db.NewDirectory("a")
	require.NoError(t, err)
	_, err = db.EditEntry(nil, map[string]*string{"title": strPtr("x")}, objects.RootID)
	require.NoError(t, err)

	found := false
	for _, d := range db.ListDirectories() {
		if d.ID == objects.RootID {
			found = true
		}
	}
	assert.True(t, found)
}

func mustDirectory(t *testing.T, db *Database, id objects.ID) *objects.Directory {
	t.Helper()
	for _, d := range db.ListDirectories() {
		if d.ID == id {
			return d
		}
	}
	t.Fatalf("directory %s not found", id)
	return nil
}

func strPtr(s string) *string { return &s }
