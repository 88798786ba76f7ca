package objects

// Timestamp is seconds since the Unix epoch. It is used both as the
// history ordering key and, on exact ties between replicas, as a secondary
// sort input (spec §3): equal timestamps are resolved by Id lexical order
// where the event type itself doesn't already disambiguate them.
type Timestamp int64

// Clock returns the current time as a Timestamp. It is a variable, not a
// function, so tests can substitute a deterministic clock without
// threading one through every call site.
var Clock = func() Timestamp {
	return nowUnix()
}
