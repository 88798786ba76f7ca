package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func childID(b byte) ID {
	var id ID
	id[0] = b
	return id
}

func TestDirectoryMaterializeNameIsLastRenameByTime(t *testing.T) {
	d := &Directory{
		ID: RootID,
		History: []DirectoryEvent{
			{Time: 200, Action: ActionRename, Name: "D3"},
			{Time: 100, Action: ActionRename, Name: "D"},
		},
	}
	state := d.Materialize()
	require.NotNil(t, state.Name)
	assert.Equal(t, "D3", *state.Name)
}

func TestDirectoryMaterializeAddRemoveIsIdempotent(t *testing.T) {
	c := childID(1)
	d := &Directory{
		ID: RootID,
		History: []DirectoryEvent{
			{Time: 1, Action: ActionAdd, Child: c},
			{Time: 2, Action: ActionAdd, Child: c}, // duplicate add, idempotent
			{Time: 3, Action: ActionRemove, Child: childID(2)}, // remove absent, no-op
		},
	}
	state := d.Materialize()
	_, present := state.Children[c]
	assert.True(t, present)
	assert.Len(t, state.Children, 1)
}

func TestDirectoryMaterializeRemoveAfterAdd(t *testing.T) {
	c := childID(1)
	d := &Directory{
		ID: RootID,
		History: []DirectoryEvent{
			{Time: 1, Action: ActionAdd, Child: c},
			{Time: 2, Action: ActionRemove, Child: c},
		},
	}
	state := d.Materialize()
	assert.Empty(t, state.Children)
}

func TestMergeDirectoriesConvergesRegardlessOfArrivalOrder(t *testing.T) {
	// Scenario 2 from spec §8: two replicas rename the same directory at
	// different times; after merge both must agree on the later rename.
	a := &Directory{ID: childID(9), History: []DirectoryEvent{
		{Time: 100, Action: ActionRename, Name: "D2"},
	}}
	b := &Directory{ID: childID(9), History: []DirectoryEvent{
		{Time: 200, Action: ActionRename, Name: "D3"},
	}}

	mergedAB := MergeDirectories(a, b)
	mergedBA := MergeDirectories(b, a)

	stateAB := mergedAB.Materialize()
	stateBA := mergedBA.Materialize()

	require.NotNil(t, stateAB.Name)
	require.NotNil(t, stateBA.Name)
	assert.Equal(t, "D3", *stateAB.Name)
	assert.Equal(t, "D3", *stateBA.Name)
	assert.Equal(t, mergedAB.History, mergedBA.History)
}

func TestMergeDirectoriesIdempotentCommutativeAssociative(t *testing.T) {
	id := childID(7)
	a := &Directory{ID: id, History: []DirectoryEvent{
		{Time: 1, Action: ActionAdd, Child: childID(1)},
	}}
	b := &Directory{ID: id, History: []DirectoryEvent{
		{Time: 2, Action: ActionAdd, Child: childID(2)},
	}}
	c := &Directory{ID: id, History: []DirectoryEvent{
		{Time: 3, Action: ActionRemove, Child: childID(1)},
	}}

	// idempotence
	assert.Equal(t, MergeDirectories(a, a).History, a.History)

	// commutativity
	ab := MergeDirectories(a, b)
	ba := MergeDirectories(b, a)
	assert.Equal(t, ab.History, ba.History)

	// associativity
	left := MergeDirectories(MergeDirectories(a, b), c)
	right := MergeDirectories(a, MergeDirectories(b, c))
	assert.Equal(t, left.History, right.History)
}

func TestMergeDirectoriesPanicsOnMismatchedIDs(t *testing.T) {
	a := &Directory{ID: childID(1)}
	b := &Directory{ID: childID(2)}
	assert.Panics(t, func() { MergeDirectories(a, b) })
}
