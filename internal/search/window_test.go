package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindowStartsAtBase(t *testing.T) {
	t.Parallel()
	w := NewWindow(500, 500, 5)
	require.Equal(t, 500, w.Capacity())
}

func TestWindowGrowsByIncrementUpToTotal(t *testing.T) {
	t.Parallel()
	w := NewWindow(500, 500, 5)

	// 1200 total matches known, plenty accumulated
	require.True(t, w.Grow(1200, 1200))
	require.Equal(t, 1000, w.Capacity())

	require.True(t, w.Grow(1200, 1200))
	require.Equal(t, 1200, w.Capacity(), "Last step clamps to the total")

	require.False(t, w.Grow(1200, 1200), "No growth once everything is displayable")
	require.Equal(t, 1200, w.Capacity())
}

func TestWindowGrowClampsToAccumulatedWhenTotalLags(t *testing.T) {
	t.Parallel()
	w := NewWindow(500, 500, 5)

	// The stream has produced more items than the total estimate admits
	require.True(t, w.Grow(700, 0))
	require.Equal(t, 700, w.Capacity())
}

func TestWindowNoGrowthWhenEverythingFits(t *testing.T) {
	t.Parallel()
	w := NewWindow(500, 500, 5)
	require.False(t, w.Grow(120, 120))
	require.Equal(t, 500, w.Capacity())
}

func TestWindowResetRestoresBase(t *testing.T) {
	t.Parallel()
	w := NewWindow(500, 500, 5)
	w.Grow(5000, 5000)
	w.Grow(5000, 5000)
	require.Greater(t, w.Capacity(), 500)

	w.Reset()
	require.Equal(t, 500, w.Capacity(), "Query change restores the base capacity")
}

func TestWindowNearBottom(t *testing.T) {
	t.Parallel()
	w := NewWindow(500, 500, 5)

	require.False(t, w.NearBottom(0, 20, 100), "Top of a long list is not near the bottom")
	require.True(t, w.NearBottom(75, 20, 100), "Within threshold rows of the end")
	require.True(t, w.NearBottom(80, 20, 100), "At the very end")
	require.True(t, w.NearBottom(0, 20, 10), "Short content is always near the bottom")
}
