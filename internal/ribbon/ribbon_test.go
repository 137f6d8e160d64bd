package ribbon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.DayKey
	}
	return out
}

func TestWindow(t *testing.T) {
	n := New(time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC), nil)

	got := n.Window()
	require.Len(t, got, 7)
	assert.Equal(t, []string{
		"12-05-2024", "13-05-2024", "14-05-2024", "15-05-2024",
		"16-05-2024", "17-05-2024", "18-05-2024",
	}, keys(got))

	// May 12 2024 is a Sunday
	assert.Equal(t, "Sun", got[0].Weekday)
	assert.Equal(t, "Wed", got[3].Weekday)
}

// next scrolls the window by one day, not seven
func TestNextStepsOneDay(t *testing.T) {
	n := New(time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), nil)

	n.Next()
	assert.Equal(t, "16-05-2024", n.Pivot())
	got := keys(n.Window())
	assert.Equal(t, "13-05-2024", got[0])
	assert.Equal(t, "19-05-2024", got[6])

	n.Prev()
	n.Prev()
	assert.Equal(t, "14-05-2024", n.Pivot())
}

func TestWindowAcrossMonthEnd(t *testing.T) {
	n := New(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), nil)
	got := keys(n.Window())
	assert.Equal(t, "29-05-2024", got[0])
	assert.Equal(t, "04-06-2024", got[6])
}

func TestLeaveOverlay(t *testing.T) {
	leaves := []Interval{{
		From: time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
	}}
	n := New(time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), leaves)

	got := n.Window()
	onLeave := map[string]bool{}
	for _, e := range got {
		onLeave[e.DayKey] = e.OnLeave
	}
	assert.False(t, onLeave["15-05-2024"])
	assert.True(t, onLeave["16-05-2024"])
	assert.True(t, onLeave["17-05-2024"])
	assert.False(t, onLeave["18-05-2024"])
}
