package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateName(t *testing.T) {
	t.Parallel()

	t.Run("short names pass through", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Alice", truncateName("Alice", maxNameLength))
	})

	t.Run("caps by rune count", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("x", maxNameLength+10)
		assert.Equal(t, maxNameLength, utf8.RuneCountInString(truncateName(long, maxNameLength)))
	})

	t.Run("never splits a multi-byte character", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("é", maxNameLength+10)

		got := truncateName(long, maxNameLength)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, maxNameLength, utf8.RuneCountInString(got))
	})
}
