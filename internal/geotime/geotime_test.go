package geotime

import (
	"testing"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokyoStation = types.Coordinate{Lat: 35.6812, Lng: 139.7671}
	osakaStation = types.Coordinate{Lat: 34.7025, Lng: 135.4959}
	kyotoStation = types.Coordinate{Lat: 34.9858, Lng: 135.7588}
)

func TestDistanceKm(t *testing.T) {
	t.Run("zero for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceKm(tokyoStation, tokyoStation))
	})

	t.Run("symmetric", func(t *testing.T) {
		pairs := [][2]types.Coordinate{
			{tokyoStation, osakaStation},
			{osakaStation, kyotoStation},
			{{Lat: -33.86, Lng: 151.21}, {Lat: 51.5, Lng: -0.12}},
		}
		for _, p := range pairs {
			assert.InDelta(t, DistanceKm(p[0], p[1]), DistanceKm(p[1], p[0]), 1e-9)
		}
	})

	t.Run("tokyo to osaka", func(t *testing.T) {
		assert.InDelta(t, 403, DistanceKm(tokyoStation, osakaStation), 5)
	})
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"09:00", 540},
		{"00:00", 0},
		{"23:59", 1439},
		{" 7:05 ", 425},
		{"", DefaultStartMinutes},
		{"noon", DefaultStartMinutes},
		{"12", DefaultStartMinutes},
		{"12:xx", DefaultStartMinutes},
		{"24:00", DefaultStartMinutes},
		{"10:75", DefaultStartMinutes},
		{"1:2:3", DefaultStartMinutes},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTime(tt.in))
		})
	}
}

func TestFormatTime(t *testing.T) {
	t.Run("round trips every minute of the day", func(t *testing.T) {
		for m := 0; m < MinutesPerDay; m++ {
			require.Equal(t, m, ParseTime(FormatTime(m)), "minute %d", m)
		}
	})

	t.Run("out of range maps to default", func(t *testing.T) {
		assert.Equal(t, "09:00", FormatTime(-1))
		assert.Equal(t, "09:00", FormatTime(MinutesPerDay))
	})
}

func TestInterval(t *testing.T) {
	a := Interval{Start: 600, End: 690}
	b := Interval{Start: 660, End: 720}
	assert.Equal(t, 30, a.Overlap(b))
	assert.Equal(t, -30, a.GapTo(b))
	assert.Equal(t, 0, a.Overlap(Interval{Start: 700, End: 760}))
	assert.Equal(t, 645, a.Midpoint())
}

func TestTimeline(t *testing.T) {
	day := types.Day{Number: 1, Activities: []types.Activity{
		{ID: "late", Time: "14:00"},
		{ID: "untimed"},
		{ID: "first-tie", Time: "10:00"},
		{ID: "second-tie", Time: "10:00"},
	}}

	slots := Timeline(day)
	require.Len(t, slots, 3)
	assert.Equal(t, "first-tie", slots[0].Activity.ID)
	assert.Equal(t, "second-tie", slots[1].Activity.ID)
	assert.Equal(t, "late", slots[2].Activity.ID)
	assert.Equal(t, 2, slots[0].Index)
	assert.Equal(t, 14*60+90-10*60, Span(slots))
}
