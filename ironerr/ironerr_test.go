package ironerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	base := New(KindCorruption, "checksum mismatch")
	wrapped := fmt.Errorf("container decode: %w", base)

	assert.True(t, Is(wrapped, KindCorruption))
	assert.False(t, Is(wrapped, KindWrongPassphrase))
}

func TestWrapPreservesCauseChain(t *testing.T) {
	cause := errors.New("siv auth failed")
	err := Wrap(KindWrongPassphrase, "open failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindWrongPassphrase))
}
