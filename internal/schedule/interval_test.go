package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(hour, min int) time.Time {
	return time.Date(2024, 5, 6, hour, min, 0, 0, time.UTC)
}

func TestSubtractCarvesBusyIntervals(t *testing.T) {
	base := Interval{Start: utc(9, 0), End: utc(12, 0)}
	busy := []Interval{
		{Start: utc(9, 30), End: utc(10, 0)},
		{Start: utc(10, 15), End: utc(10, 15)}, // zero length, dropped
		{Start: utc(11, 0), End: utc(13, 0)},   // clipped to 11:00-12:00
	}

	free := Subtract(base, busy)
	require.Len(t, free, 2)
	assert.Equal(t, Interval{Start: utc(9, 0), End: utc(9, 30)}, free[0])
	assert.Equal(t, Interval{Start: utc(10, 0), End: utc(11, 0)}, free[1])
}

func TestSubtractEmptyBusyReturnsBase(t *testing.T) {
	base := Interval{Start: utc(9, 0), End: utc(12, 0)}
	free := Subtract(base, nil)
	require.Len(t, free, 1)
	assert.Equal(t, base, free[0])
}

func TestSubtractOverlappingOutOfOrderBusy(t *testing.T) {
	base := Interval{Start: utc(8, 0), End: utc(18, 0)}
	busy := []Interval{
		{Start: utc(14, 0), End: utc(16, 0)},
		{Start: utc(9, 0), End: utc(11, 0)},
		{Start: utc(10, 0), End: utc(12, 0)}, // overlaps previous
		{Start: utc(15, 0), End: utc(15, 30)}, // contained in first
	}

	free := Subtract(base, busy)
	require.Len(t, free, 3)
	assert.Equal(t, Interval{Start: utc(8, 0), End: utc(9, 0)}, free[0])
	assert.Equal(t, Interval{Start: utc(12, 0), End: utc(14, 0)}, free[1])
	assert.Equal(t, Interval{Start: utc(16, 0), End: utc(18, 0)}, free[2])
}

func TestSubtractBusyCoveringBase(t *testing.T) {
	base := Interval{Start: utc(9, 0), End: utc(12, 0)}
	busy := []Interval{{Start: utc(8, 0), End: utc(13, 0)}}
	assert.Empty(t, Subtract(base, busy))
}

func TestExpandAppliesBuffersBothSides(t *testing.T) {
	iv := Interval{Start: utc(14, 0), End: utc(14, 30)}
	expanded := Expand(iv, 10*time.Minute, 10*time.Minute)
	assert.Equal(t, utc(13, 50), expanded.Start)
	assert.Equal(t, utc(14, 40), expanded.End)
}

func TestOverlapsAdjacentIntervalsDoNot(t *testing.T) {
	blocked := Expand(Interval{Start: utc(14, 0), End: utc(14, 30)}, 10*time.Minute, 10*time.Minute)

	adjacent := Interval{Start: utc(14, 40), End: utc(15, 0)}
	assert.False(t, blocked.Overlaps(adjacent))

	colliding := Interval{Start: utc(14, 35), End: utc(15, 0)}
	assert.True(t, blocked.Overlaps(colliding))
}

func TestFilterMinDuration(t *testing.T) {
	segs := []Interval{
		{Start: utc(9, 0), End: utc(9, 10)},
		{Start: utc(10, 0), End: utc(10, 45)},
		{Start: utc(11, 0), End: utc(11, 30)},
	}
	kept := FilterMinDuration(segs, 30*time.Minute)
	require.Len(t, kept, 2)
	assert.Equal(t, utc(10, 0), kept[0].Start)
	assert.Equal(t, utc(11, 0), kept[1].Start)
}

func TestClipAndContains(t *testing.T) {
	bounds := Interval{Start: utc(9, 0), End: utc(12, 0)}
	clipped := Clip(Interval{Start: utc(8, 0), End: utc(10, 0)}, bounds)
	assert.Equal(t, Interval{Start: utc(9, 0), End: utc(10, 0)}, clipped)

	assert.True(t, bounds.Contains(clipped))
	assert.False(t, bounds.Contains(Interval{Start: utc(11, 0), End: utc(13, 0)}))

	inverted := Clip(Interval{Start: utc(13, 0), End: utc(14, 0)}, bounds)
	assert.True(t, inverted.IsEmpty())
}
