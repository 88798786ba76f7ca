package siv

import "encoding/binary"

// Encode implements the injective encoding from spec §4.2:
//
//	Encode(a, b) = a || b || le64(len(a)) || le64(len(b))
//
// The trailing length prefixes make the encoding injective even when
// len(a)+len(b) collides across two different (a, b) pairs: a consumer
// can always recover the split point by reading the two trailing u64s.
func Encode(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b)+16)
	out = append(out, a...)
	out = append(out, b...)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(a)))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(b)))
	return out
}
