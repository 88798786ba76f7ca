package objects

import (
	"encoding/json"
	"sort"
	"strings"
)

// EntryEvent is one entry in an Entry's append-only history: a set of
// key/value edits applied at Time. A nil value in Data deletes that key
// from the materialized state (spec §3).
type EntryEvent struct {
	Time Timestamp
	Data map[string]*string
}

// canonicalArgument renders an EntryEvent's Data map as a deterministic
// string, used as the secondary sort key when two events on the same
// Entry share a Time (spec §4.7's "Id-lexical tiebreak on equal times":
// since a single Entry has only one Id, the tiebreak is instead taken over
// the event's own canonical content, which plays the same role — a stable,
// content-derived key that is identical across any two replicas that
// received the same event).
func (e EntryEvent) canonicalArgument() string {
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		if v := e.Data[k]; v != nil {
			sb.WriteString(*v)
		} else {
			sb.WriteString("\x00null\x00")
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

// Entry is a password entry: an Id, its creation time, and its complete
// append-only event history. Well-known Data keys are title, username,
// password, url, notes; the map is open to forward-compatible additions
// (spec §3).
type Entry struct {
	ID          ID
	TimeCreated Timestamp
	History     []EntryEvent
	// Extra carries unrecognized top-level document keys across a decode/
	// re-encode cycle, same role as Directory.Extra.
	Extra map[string]json.RawMessage
}

// Materialize folds history in time order into the entry's current field
// values: for each key touched by an event, the last (in time order) write
// wins, and a nil value removes the key (spec §3).
func (e *Entry) Materialize() map[string]string {
	events := sortedEntryEvents(e.History)

	state := make(map[string]string)
	for _, ev := range events {
		for k, v := range ev.Data {
			if v == nil {
				delete(state, k)
			} else {
				state[k] = *v
			}
		}
	}
	return state
}

func sortedEntryEvents(events []EntryEvent) []EntryEvent {
	out := make([]EntryEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.canonicalArgument() < b.canonicalArgument()
	})
	return out
}

func dedupEntryEvents(events []EntryEvent) []EntryEvent {
	type key struct {
		t   Timestamp
		arg string
	}
	seen := make(map[key]struct{}, len(events))
	out := make([]EntryEvent, 0, len(events))
	for _, e := range events {
		k := key{e.Time, e.canonicalArgument()}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// MergeEntries implements the two-way Entry merge from spec §4.7: union
// the event lists by (time, data) equality, sort by time ascending with
// the content tiebreak from canonicalArgument. a and b must share the same
// Id.
func MergeEntries(a, b *Entry) *Entry {
	if a.ID != b.ID {
		panic("objects: MergeEntries called on entries with different ids")
	}
	combined := make([]EntryEvent, 0, len(a.History)+len(b.History))
	combined = append(combined, a.History...)
	combined = append(combined, b.History...)

	merged := sortedEntryEvents(dedupEntryEvents(combined))

	timeCreated := a.TimeCreated
	if b.TimeCreated < timeCreated {
		timeCreated = b.TimeCreated
	}
	return &Entry{ID: a.ID, TimeCreated: timeCreated, History: merged, Extra: mergeExtraMaps(a.Extra, b.Extra)}
}
