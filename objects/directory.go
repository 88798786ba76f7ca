package objects

import (
	"encoding/json"
	"sort"
)

// ActionKind discriminates the three kinds of DirectoryEvent.
type ActionKind uint8

const (
	// ActionRename orders before ActionAdd and ActionRemove in the stable
	// secondary sort used by merge (spec §4.7: "Rename < Add < Remove").
	ActionRename ActionKind = iota
	ActionAdd
	ActionRemove
)

// DirectoryEvent is one entry in a Directory's append-only history: a
// rename, or a child being added to or removed from the directory's
// current children set (spec §3).
type DirectoryEvent struct {
	Time   Timestamp
	Action ActionKind
	Name   string // set when Action == ActionRename
	Child  ID     // set when Action == ActionAdd or ActionRemove
}

// argument returns the event's sort key among events with equal Time and
// Action, per spec §4.7's "action argument lexical" tiebreak.
func (e DirectoryEvent) argument() string {
	if e.Action == ActionRename {
		return e.Name
	}
	return e.Child.String()
}

// Directory is a directory object: an Id plus its complete, append-only
// event history. Its current name and children are never stored directly
// — they are always derived by Materialize (spec §3, §9).
type Directory struct {
	ID      ID
	History []DirectoryEvent
	// Extra carries unrecognized top-level document keys across a decode/
	// re-encode cycle (spec §4.8 forward-compatibility), untouched by
	// Materialize or MergeDirectories beyond being carried through.
	Extra map[string]json.RawMessage
}

// DirectoryState is the materialized, current view of a Directory.
type DirectoryState struct {
	Name     *string
	Children map[ID]struct{}
}

// Materialize folds history in time order into the directory's current
// state: Name is the string of the last Rename event by time order (nil if
// there has never been one); Children is the set formed by applying
// Add/Remove events in time order, where Add is idempotent and removing an
// absent child is a no-op (spec §3).
func (d *Directory) Materialize() DirectoryState {
	events := sortedDirectoryEvents(d.History)

	state := DirectoryState{Children: make(map[ID]struct{})}
	for _, e := range events {
		switch e.Action {
		case ActionRename:
			name := e.Name
			state.Name = &name
		case ActionAdd:
			state.Children[e.Child] = struct{}{}
		case ActionRemove:
			delete(state.Children, e.Child)
		}
	}
	return state
}

// sortedDirectoryEvents returns a stably time-ordered copy of events, using
// the (Rename < Add < Remove, then lexical argument) tiebreak from spec
// §4.7 so that materialization is independent of append order once all
// replicas agree on the event set.
func sortedDirectoryEvents(events []DirectoryEvent) []DirectoryEvent {
	out := make([]DirectoryEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		if a.Action != b.Action {
			return a.Action < b.Action
		}
		return a.argument() < b.argument()
	})
	return out
}

// dedupDirectoryEvents removes exact (time, action, argument) duplicates,
// keeping one copy of each, per spec §4.7's "union the event lists by
// (time, action) equality; on exact duplicates keep one".
func dedupDirectoryEvents(events []DirectoryEvent) []DirectoryEvent {
	type key struct {
		t   Timestamp
		a   ActionKind
		arg string
	}
	seen := make(map[key]struct{}, len(events))
	out := make([]DirectoryEvent, 0, len(events))
	for _, e := range events {
		k := key{e.Time, e.Action, e.argument()}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// MergeDirectories implements the two-way Directory merge from spec §4.7:
// union the event lists by (time, action) equality, sort by time ascending
// with the stable secondary order, and materialize afresh. a and b must
// share the same Id; MergeDirectories panics otherwise, since merging
// unrelated objects is a programmer error, not a recoverable one.
func MergeDirectories(a, b *Directory) *Directory {
	if a.ID != b.ID {
		panic("objects: MergeDirectories called on directories with different ids")
	}
	combined := make([]DirectoryEvent, 0, len(a.History)+len(b.History))
	combined = append(combined, a.History...)
	combined = append(combined, b.History...)

	merged := sortedDirectoryEvents(dedupDirectoryEvents(combined))
	return &Directory{ID: a.ID, History: merged, Extra: mergeExtraMaps(a.Extra, b.Extra)}
}

// mergeExtraMaps unions two Extra maps. On a key present in both, it keeps
// the lexicographically larger raw JSON value — an arbitrary but
// deterministic and commutative rule, so MergeDirectories/MergeEntries
// stay commutative even when both replicas wrote conflicting forward-
// compatible fields.
func mergeExtraMaps(a, b map[string]json.RawMessage) map[string]json.RawMessage {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]json.RawMessage, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if existing, ok := out[k]; !ok || string(v) > string(existing) {
			out[k] = v
		}
	}
	return out
}
