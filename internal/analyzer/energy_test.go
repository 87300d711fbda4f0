package analyzer

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func busyDay(num, activities int, pace types.Pace) types.Day {
	d := types.Day{Number: num, Pace: pace}
	for i := 0; i < activities; i++ {
		d.Activities = append(d.Activities, types.Activity{
			ID:       fmt.Sprintf("d%d-a%d", num, i),
			Title:    "Stop",
			Category: types.CategorySightseeing,
		})
	}
	return d
}

func TestEnergyPredictor_SustainedLowEnergyIsOnePeriod(t *testing.T) {
	trip := &types.Trip{}
	for i := 1; i <= 10; i++ {
		trip.Days = append(trip.Days, busyDay(i, 5, types.PaceIntense))
	}

	fc, issues := NewEnergyPredictor(DefaultConfig().Energy).Forecast(trip)

	for _, pt := range fc.Curve {
		require.Less(t, pt.Energy, 60, "day %d", pt.Day)
	}
	require.Len(t, fc.Periods, 1)
	assert.Equal(t, types.LowEnergyPeriod{StartDay: 1, EndDay: 10, Length: 10, MinEnergy: fc.Curve[9].Energy}, fc.Periods[0])

	require.Len(t, issues, 1, "days inside the period are not reported individually")
	assert.Equal(t, types.KindLowEnergyPeriod, issues[0].Kind)
	assert.Equal(t, types.SeverityCritical, issues[0].Severity)
	assert.Equal(t, "high", fc.Severity)
}

func TestEnergyPredictor_JetLagAndRest(t *testing.T) {
	trip := &types.Trip{Days: []types.Day{
		{Number: 1},
		busyDay(2, 5, types.PaceModerate),
		busyDay(3, 5, types.PaceModerate),
		busyDay(4, 5, types.PaceModerate),
	}}

	curve := NewEnergyPredictor(DefaultConfig().Energy).Curve(trip)

	require.Len(t, curve, 4)
	assert.InDelta(t, 15.0, curve[0].JetLag, 1e-9)
	assert.InDelta(t, 10.0, curve[1].JetLag, 1e-9)
	assert.InDelta(t, 5.0, curve[2].JetLag, 1e-9)
	assert.Zero(t, curve[3].JetLag)
	assert.True(t, curve[0].RestDay)
	// 100 - 18 fatigue - 15 jet lag + 30 rest
	assert.Equal(t, 97, curve[0].Energy)
	assert.Equal(t, 0.0, curve[0].Fatigue)
}

func TestEnergyPredictor_DecliningTrend(t *testing.T) {
	trip := &types.Trip{Days: []types.Day{
		{Number: 1}, {Number: 2}, {Number: 3},
		busyDay(4, 8, types.PaceIntense),
		busyDay(5, 8, types.PaceIntense),
		busyDay(6, 8, types.PaceIntense),
	}}

	fc, issues := NewEnergyPredictor(DefaultConfig().Energy).Forecast(trip)

	assert.Equal(t, types.TrendDeclining, fc.Trend)
	assert.Empty(t, fc.Periods)
	assert.Equal(t, 3, fc.RestDays)

	var lowDays []int
	for _, is := range issues {
		require.Equal(t, types.KindLowEnergyDay, is.Kind)
		lowDays = append(lowDays, is.Day)
		if is.Detail.(types.LowEnergyDayDetail).Band == types.EnergyBurnout {
			assert.Equal(t, types.SeverityWarning, is.Severity)
		}
	}
	assert.Equal(t, []int{5, 6}, lowDays)

	var recTypes []string
	for _, r := range fc.Recommendations {
		recTypes = append(recTypes, r.Type)
	}
	assert.Contains(t, recTypes, "redistribute_intensity")
	assert.Contains(t, recTypes, "reduce_daily_activities")
}

func TestEnergyPredictor_EnergyStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	paces := []types.Pace{types.PaceRelaxed, types.PaceModerate, types.PaceIntense, types.PaceExtreme, ""}
	p := NewEnergyPredictor(DefaultConfig().Energy)

	for run := 0; run < 200; run++ {
		trip := &types.Trip{}
		days := 1 + rng.Intn(20)
		for d := 1; d <= days; d++ {
			day := busyDay(d, rng.Intn(14), paces[rng.Intn(len(paces))])
			day.RestDay = rng.Intn(6) == 0
			for i := range day.Activities {
				day.Activities[i].Duration = mins(rng.Intn(300))
				if rng.Intn(2) == 0 {
					day.Activities[i].Coordinate = &types.Coordinate{Lat: 35 + rng.Float64(), Lng: 139 + rng.Float64()}
				}
			}
			trip.Days = append(trip.Days, day)
		}
		for _, pt := range p.Curve(trip) {
			require.GreaterOrEqual(t, pt.Energy, 0)
			require.LessOrEqual(t, pt.Energy, 100)
		}
	}
}

func TestEnergyPredictor_EmptyTrip(t *testing.T) {
	fc, issues := NewEnergyPredictor(DefaultConfig().Energy).Forecast(&types.Trip{})
	assert.Empty(t, issues)
	assert.Equal(t, types.TrendStable, fc.Trend)
	assert.Equal(t, "none", fc.Severity)
}
