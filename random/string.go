package random

import (
	"fmt"

	"github.com/ironvault-project/ironvault/ironerr"
)

const (
	upperAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlphabet  = "abcdefghijklmnopqrstuvwxyz"
	numberAlphabet = "0123456789"
)

// String generates a uniformly random string of the given length over the
// alphabet formed by the selected character classes plus the literal
// "others" runes (spec §4.10, §9). It fails with a caller-distinguishable
// error if length < 1 or the resulting alphabet is empty.
//
// "others" is NOT deduplicated: if the caller passes repeated characters,
// those characters are proportionally more likely to appear in the
// output. This is a documented, deliberate preservation of the original
// behavior (spec §9 Open Question), not an oversight — callers who want a
// uniform alphabet must deduplicate "others" themselves before calling.
func String(src Source, length int, uppercase, lowercase, numbers bool, others string) (string, error) {
	if length < 1 {
		return "", ironerr.New(ironerr.KindInvalidInput, fmt.Sprintf("random: length must be >= 1, got %d", length))
	}

	alphabet := ""
	if uppercase {
		alphabet += upperAlphabet
	}
	if lowercase {
		alphabet += lowerAlphabet
	}
	if numbers {
		alphabet += numberAlphabet
	}
	alphabet += others
	runes := []rune(alphabet)

	if len(runes) == 0 {
		return "", ironerr.New(ironerr.KindInvalidInput, "random: character set is empty")
	}

	out := make([]rune, length)
	for i := range out {
		idx, err := uniformIndex(src, len(runes))
		if err != nil {
			return "", err
		}
		out[i] = runes[idx]
	}
	return string(out), nil
}

// uniformIndex picks an index in [0, n) uniformly at random via rejection
// sampling over random bytes, avoiding the modulo bias a naive `b % n`
// would introduce for n that doesn't evenly divide 256.
func uniformIndex(src Source, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("random: alphabet size must be positive")
	}
	if n > 256 {
		// Our alphabets are always <= 26+26+10+len(others); callers that
		// somehow exceed a byte's range get a clear error rather than a
		// silently biased result.
		return 0, fmt.Errorf("random: alphabet too large (%d), max 256", n)
	}

	limit := 256 - (256 % n)
	buf := make([]byte, 1)
	for {
		if _, err := src.Read(buf); err != nil {
			return 0, fmt.Errorf("random: read byte: %w", err)
		}
		if int(buf[0]) < limit {
			return int(buf[0]) % n, nil
		}
	}
}
