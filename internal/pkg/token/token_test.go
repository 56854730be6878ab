package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_LengthAndAlphabet(t *testing.T) {
	tok := New()
	assert.Len(t, tok, 32)
	for _, c := range tok {
		assert.True(t, strings.ContainsRune(alphabet, c), "unexpected character %q", c)
	}
}

func TestNew_NotReused(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := New()
		assert.False(t, seen[tok], "token repeated: %s", tok)
		seen[tok] = true
	}
}
