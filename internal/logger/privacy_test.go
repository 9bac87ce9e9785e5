package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashUserID(t *testing.T) {
	t.Parallel()

	t.Run("stable for the same user", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, HashUserID(42), HashUserID(42))
	})

	t.Run("short and distinct across users", func(t *testing.T) {
		t.Parallel()
		a, b := HashUserID(42), HashUserID(43)
		require.Len(t, a, 8)
		require.NotEqual(t, a, b)
	})
}

func TestSanitizeDescription(t *testing.T) {
	t.Parallel()

	t.Run("empty input is marked, not dropped", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "<empty>", SanitizeDescription(""))
	})

	t.Run("free text never reaches the output", func(t *testing.T) {
		t.Parallel()
		got := SanitizeDescription("coffee with client")
		require.Equal(t, "<redacted: 3 words, 18 chars>", got)
		require.NotContains(t, got, "coffee")
	})
}
