package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomCode(t *testing.T) {
	t.Parallel()

	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	for range 100 {
		code := randomCode(roomCodeLength)
		assert.Len(t, code, roomCodeLength)

		for _, r := range code {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q in %q", r, code)
		}
	}
}
