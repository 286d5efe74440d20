package simclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRunFiresInTimestampOrder(t *testing.T) {
	c := New(t0)
	var got []int

	c.ScheduleAt(t0.Add(3*time.Hour), func() { got = append(got, 3) })
	c.ScheduleAt(t0.Add(1*time.Hour), func() { got = append(got, 1) })
	c.ScheduleAt(t0.Add(2*time.Hour), func() { got = append(got, 2) })

	c.RunAll()
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestEqualTimestampsFireInScheduleOrder(t *testing.T) {
	c := New(t0)
	at := t0.Add(time.Hour)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		c.ScheduleAt(at, func() { got = append(got, i) })
	}
	c.RunAll()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestNowAdvancesWithCallbacks(t *testing.T) {
	c := New(t0)
	var seen []time.Time
	c.ScheduleAt(t0.Add(time.Hour), func() { seen = append(seen, c.Now()) })
	c.ScheduleAt(t0.Add(2*time.Hour), func() { seen = append(seen, c.Now()) })

	c.Run(t0.Add(3 * time.Hour))

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Equal(t0.Add(time.Hour)))
	assert.True(t, seen[1].Equal(t0.Add(2*time.Hour)))
	assert.True(t, c.Now().Equal(t0.Add(3*time.Hour)))
}

func TestRunStopsAtHorizon(t *testing.T) {
	c := New(t0)
	fired := false
	c.ScheduleAt(t0.Add(48*time.Hour), func() { fired = true })

	c.Run(t0.Add(24 * time.Hour))
	assert.False(t, fired)
	assert.Equal(t, 1, c.Pending())

	c.Run(t0.Add(72 * time.Hour))
	assert.True(t, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestPastTimestampsFireImmediatelyInOrder(t *testing.T) {
	c := New(t0)
	c.Run(t0.Add(time.Hour)) // advance past the origin

	var got []int
	c.ScheduleAt(t0, func() { got = append(got, 0) })
	c.ScheduleAt(c.Now(), func() { got = append(got, 1) })
	c.ScheduleAt(c.Now().Add(time.Minute), func() { got = append(got, 2) })

	c.RunAll()
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.True(t, c.Now().Equal(t0.Add(time.Hour).Add(time.Minute)))
}

func TestCancel(t *testing.T) {
	c := New(t0)
	fired := false
	tok := c.ScheduleAt(t0.Add(time.Hour), func() { fired = true })

	c.Cancel(tok)
	c.RunAll()
	assert.False(t, fired)

	// Double cancel and cancelling a fired token are no-ops.
	c.Cancel(tok)
	tok2 := c.ScheduleAt(t0.Add(2*time.Hour), func() { fired = true })
	c.RunAll()
	assert.True(t, fired)
	c.Cancel(tok2)
}

func TestCallbacksMaySchedule(t *testing.T) {
	c := New(t0)
	var got []int
	c.ScheduleAt(t0.Add(time.Hour), func() {
		got = append(got, 1)
		c.ScheduleAt(c.Now().Add(time.Hour), func() { got = append(got, 2) })
	})
	c.RunAll()
	assert.Equal(t, []int{1, 2}, got)
}
