// Package geotime holds the distance and time-of-day helpers shared by the
// analyzers and the repair engine.
package geotime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

const (
	earthRadiusKm = 6371

	// DefaultStartMinutes (09:00) stands in for any time that cannot be parsed.
	DefaultStartMinutes = 9 * 60
	MinutesPerDay       = 24 * 60
)

// DistanceKm returns the great-circle distance between a and b using the
// haversine formula. Inputs are assumed valid.
func DistanceKm(a, b types.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlon := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// Midpoint is the arithmetic midpoint of two coordinates, good enough for the
// city-scale distances used to anchor place lookups.
func Midpoint(a, b types.Coordinate) types.Coordinate {
	return types.Coordinate{Lat: (a.Lat + b.Lat) / 2, Lng: (a.Lng + b.Lng) / 2}
}

// ParseTime converts "HH:MM" into minutes since midnight. Anything malformed
// or out of range yields DefaultStartMinutes.
func ParseTime(text string) int {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return DefaultStartMinutes
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return DefaultStartMinutes
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return DefaultStartMinutes
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return DefaultStartMinutes
	}
	return h*60 + m
}

// FormatTime is the inverse of ParseTime. Minutes outside a single day map
// to the default start.
func FormatTime(minutes int) string {
	if minutes < 0 || minutes >= MinutesPerDay {
		minutes = DefaultStartMinutes
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Interval is a half-open [Start, End) span in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

func (iv Interval) Midpoint() int {
	return iv.Start + iv.Duration()/2
}

func (iv Interval) Contains(minute int) bool {
	return minute >= iv.Start && minute <= iv.End
}

// Overlap returns how many minutes iv and other share; zero when disjoint.
func (iv Interval) Overlap(other Interval) int {
	o := min(iv.End, other.End) - max(iv.Start, other.Start)
	if o < 0 {
		return 0
	}
	return o
}

// GapTo is the free time between the end of iv and the start of next.
// Negative values mean the two overlap.
func (iv Interval) GapTo(next Interval) int {
	return next.Start - iv.End
}

// ActivityInterval returns the scheduled span of a timed activity.
func ActivityInterval(a types.Activity) Interval {
	start := ParseTime(a.Time)
	return Interval{Start: start, End: start + a.DurationMinutes()}
}
