package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()
	require.False(t, id.IsZero())
	require.Len(t, id.String(), 26, "canonical ULID form is 26 chars")
}

func TestNew_Sortable(t *testing.T) {
	// IDs generated in sequence must sort in creation order even within
	// the same millisecond (monotonic entropy).
	prev := New()
	for range 50 {
		next := New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestParse(t *testing.T) {
	t.Run("round trips a generated id", func(t *testing.T) {
		id := New()
		parsed, err := Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, s := range []string{"", "   ", "not-a-ulid", "0000"} {
			_, err := Parse(s)
			require.ErrorIs(t, err, ErrInvalid)
		}
	})
}

func TestTime(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	id := NewAt(at)
	require.Equal(t, at.UnixMilli(), id.Time().UnixMilli())

	require.True(t, Zero.Time().IsZero())
}
