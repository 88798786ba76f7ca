package objects

import (
	"encoding/json"
	"fmt"
)

// This file implements the canonical, self-describing JSON encoding used
// both for whole-database serialization (package store assembles an array
// of these) and for the single-object plaintext the sync engine feeds
// into SIV encryption (package sync, spec §4.9 step 1: "serialize the
// object's canonical event list"). Using one encoding for both keeps the
// bytes two replicas agree on identical in either context, which is what
// lets the sync engine compare SIVs as a proxy for "already converged"
// (spec §4.4).
//
// Every object is tagged with its "type" so a decoder can dispatch without
// side information, and any top-level JSON key this version of the code
// doesn't recognize is preserved verbatim in Extra, so an older client
// never silently drops a newer client's additions on re-save (spec §4.8,
// §3's forward-compatible Entry.Data is already open-ended and needs no
// such side channel).

const (
	typeDirectory = "directory"
	typeEntry     = "entry"
	typeMetadata  = "metadata"
)

// Metadata is the one non-object entry carried in a database document: the
// session-level fields the mutation API needs back after Open (spec §4.10
// open(bytes, passphrase) takes no username, so it must travel with the
// ciphertext) without being part of the Directory/Entry object model
// itself.
type Metadata struct {
	Username string
	SyncURL  *string
}

type metadataDoc struct {
	Type     string  `json:"type"`
	Username string  `json:"username"`
	SyncURL  *string `json:"sync_url,omitempty"`
}

type directoryEventDoc struct {
	Time   Timestamp `json:"time"`
	Rename *string   `json:"rename,omitempty"`
	Add    *string   `json:"add,omitempty"`
	Remove *string   `json:"remove,omitempty"`
}

type entryEventDoc struct {
	Time Timestamp          `json:"time"`
	Data map[string]*string `json:"data"`
}

// directoryDoc and entryDoc are the on-the-wire shapes. Extra carries
// unrecognized top-level keys through a round trip unmodified.
type directoryDoc struct {
	Type    string                     `json:"type"`
	ID      ID                         `json:"id"`
	History []directoryEventDoc        `json:"history"`
	Extra   map[string]json.RawMessage `json:"-"`
}

type entryDoc struct {
	Type        string                     `json:"type"`
	ID          ID                         `json:"id"`
	TimeCreated Timestamp                  `json:"time_created"`
	History     []entryEventDoc            `json:"history"`
	Extra       map[string]json.RawMessage `json:"-"`
}

var directoryKnownKeys = map[string]struct{}{"type": {}, "id": {}, "history": {}}
var entryKnownKeys = map[string]struct{}{"type": {}, "id": {}, "time_created": {}, "history": {}}

func (d directoryDoc) MarshalJSON() ([]byte, error) {
	type alias directoryDoc
	base, err := json.Marshal(alias(d))
	if err != nil {
		return nil, err
	}
	return mergeExtra(base, d.Extra)
}

func (d *directoryDoc) UnmarshalJSON(data []byte) error {
	type alias directoryDoc
	if err := json.Unmarshal(data, (*alias)(d)); err != nil {
		return err
	}
	d.Extra = splitExtra(data, directoryKnownKeys)
	return nil
}

func (e entryDoc) MarshalJSON() ([]byte, error) {
	type alias entryDoc
	base, err := json.Marshal(alias(e))
	if err != nil {
		return nil, err
	}
	return mergeExtra(base, e.Extra)
}

func (e *entryDoc) UnmarshalJSON(data []byte) error {
	type alias entryDoc
	if err := json.Unmarshal(data, (*alias)(e)); err != nil {
		return err
	}
	e.Extra = splitExtra(data, entryKnownKeys)
	return nil
}

func mergeExtra(base []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return base, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range extra {
		m[k] = v
	}
	return json.Marshal(m)
}

func splitExtra(data []byte, known map[string]struct{}) map[string]json.RawMessage {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	extra := make(map[string]json.RawMessage)
	for k, v := range m {
		if _, ok := known[k]; ok {
			continue
		}
		extra[k] = v
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}

func toDirectoryDoc(d *Directory) directoryDoc {
	events := sortedDirectoryEvents(dedupDirectoryEvents(d.History))
	docs := make([]directoryEventDoc, len(events))
	for i, e := range events {
		docs[i] = directoryEventDoc{Time: e.Time}
		switch e.Action {
		case ActionRename:
			name := e.Name
			docs[i].Rename = &name
		case ActionAdd:
			child := e.Child.String()
			docs[i].Add = &child
		case ActionRemove:
			child := e.Child.String()
			docs[i].Remove = &child
		}
	}
	return directoryDoc{Type: typeDirectory, ID: d.ID, History: docs, Extra: d.Extra}
}

func fromDirectoryDoc(doc directoryDoc) (*Directory, error) {
	events := make([]DirectoryEvent, 0, len(doc.History))
	for _, ev := range doc.History {
		e := DirectoryEvent{Time: ev.Time}
		switch {
		case ev.Rename != nil:
			e.Action, e.Name = ActionRename, *ev.Rename
		case ev.Add != nil:
			id, err := ParseID(*ev.Add)
			if err != nil {
				return nil, fmt.Errorf("objects: decode directory add event: %w", err)
			}
			e.Action, e.Child = ActionAdd, id
		case ev.Remove != nil:
			id, err := ParseID(*ev.Remove)
			if err != nil {
				return nil, fmt.Errorf("objects: decode directory remove event: %w", err)
			}
			e.Action, e.Child = ActionRemove, id
		default:
			return nil, fmt.Errorf("objects: directory event has no action")
		}
		events = append(events, e)
	}
	return &Directory{ID: doc.ID, History: events, Extra: doc.Extra}, nil
}

func toEntryDoc(e *Entry) entryDoc {
	events := sortedEntryEvents(dedupEntryEvents(e.History))
	docs := make([]entryEventDoc, len(events))
	for i, ev := range events {
		docs[i] = entryEventDoc{Time: ev.Time, Data: ev.Data}
	}
	return entryDoc{Type: typeEntry, ID: e.ID, TimeCreated: e.TimeCreated, History: docs, Extra: e.Extra}
}

func fromEntryDoc(doc entryDoc) *Entry {
	events := make([]EntryEvent, len(doc.History))
	for i, ev := range doc.History {
		events[i] = EntryEvent{Time: ev.Time, Data: ev.Data}
	}
	return &Entry{ID: doc.ID, TimeCreated: doc.TimeCreated, History: events, Extra: doc.Extra}
}

// EncodeDirectory returns the canonical JSON encoding of d, with its
// history deduplicated and sorted so that two replicas holding the same
// event set always produce byte-identical output.
func EncodeDirectory(d *Directory) ([]byte, error) {
	return json.Marshal(toDirectoryDoc(d))
}

// EncodeEntry returns the canonical JSON encoding of e.
func EncodeEntry(e *Entry) ([]byte, error) {
	return json.Marshal(toEntryDoc(e))
}

// peekType returns the "type" discriminator of a tagged object document
// without otherwise decoding it.
func peekType(data []byte) (string, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return "", fmt.Errorf("objects: decode object tag: %w", err)
	}
	if tag.Type == "" {
		return "", fmt.Errorf("objects: object missing \"type\" field")
	}
	return tag.Type, nil
}

// Decoded is the result of decoding one tagged object document: exactly
// one of Directory, Entry, or Metadata is non-nil.
type Decoded struct {
	Directory *Directory
	Entry     *Entry
	Metadata  *Metadata
}

// DecodeObject decodes one tagged object document (as produced by
// EncodeDirectory/EncodeEntry or found inside a full database document),
// dispatching on its "type" field.
func DecodeObject(data []byte) (Decoded, error) {
	kind, err := peekType(data)
	if err != nil {
		return Decoded{}, err
	}
	switch kind {
	case typeDirectory:
		var doc directoryDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return Decoded{}, fmt.Errorf("objects: decode directory: %w", err)
		}
		dir, err := fromDirectoryDoc(doc)
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Directory: dir}, nil
	case typeEntry:
		var doc entryDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return Decoded{}, fmt.Errorf("objects: decode entry: %w", err)
		}
		return Decoded{Entry: fromEntryDoc(doc)}, nil
	case typeMetadata:
		var doc metadataDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return Decoded{}, fmt.Errorf("objects: decode metadata: %w", err)
		}
		return Decoded{Metadata: &Metadata{Username: doc.Username, SyncURL: doc.SyncURL}}, nil
	default:
		return Decoded{}, fmt.Errorf("objects: unknown object type %q", kind)
	}
}

// EncodeDocument assembles the full, ordered array of tagged object
// documents that makes up a database's serialized body (spec §4.8): every
// directory first, then every entry, each already canonical via
// EncodeDirectory/EncodeEntry. The two slices are the caller's own
// iteration order over its object maps; sorting them is the caller's
// responsibility if a stable on-disk diff matters to it.
func EncodeDocument(meta *Metadata, directories []*Directory, entries []*Entry) ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(directories)+len(entries)+1)
	if meta != nil {
		b, err := json.Marshal(metadataDoc{Type: typeMetadata, Username: meta.Username, SyncURL: meta.SyncURL})
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	for _, d := range directories {
		b, err := EncodeDirectory(d)
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	for _, e := range entries {
		b, err := EncodeEntry(e)
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	return json.Marshal(raw)
}

// DecodeDocument splits a full database document back into its metadata
// (nil if absent, e.g. a document assembled without EncodeDocument's meta
// argument), directory, and entry objects.
func DecodeDocument(data []byte) (meta *Metadata, directories []*Directory, entries []*Entry, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, nil, fmt.Errorf("objects: decode document: %w", err)
	}
	for _, item := range raw {
		decoded, err := DecodeObject(item)
		if err != nil {
			return nil, nil, nil, err
		}
		if decoded.Directory != nil {
			directories = append(directories, decoded.Directory)
		}
		if decoded.Entry != nil {
			entries = append(entries, decoded.Entry)
		}
		if decoded.Metadata != nil {
			meta = decoded.Metadata
		}
	}
	return meta, directories, entries, nil
}
