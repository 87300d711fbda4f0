// Package analyzer contains the trip-wide analyzers: budget, fatigue load,
// energy forecasting and schedule coverage. Each analyzer is configured once
// with an immutable Config and is safe for concurrent use.
package analyzer

import (
	"github.com/FACorreiaa/go-itinerary-health/internal/geotime"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

type BudgetConfig struct {
	// DeviationRatio flags days whose spend differs from the mean by more than this share.
	DeviationRatio float64
	// TightRatio flags trips whose spend reaches this share of the trip budget.
	TightRatio float64
}

type OverloadConfig struct {
	ActivityAllowance int
	LongSpanMinutes   int
	LongSpanPoints    int
	BaseSpanMinutes   int
	MinBufferMinutes  int
	ModeratePoints    int
	HighPoints        int
	ExtremePoints     int
}

type EnergyConfig struct {
	InitialEnergy     float64
	JetLagDays        int
	JetLagPenalty     float64
	FatigueRetention  float64
	BaseFatigue       float64
	IntensityWeights  map[types.Pace]float64
	FreeWalkingKm     float64
	WalkPerActivityKm float64
	WalkingFatigue    float64
	ActivityAllowance int
	ExtraActivityCost float64
	LongDayMinutes    int
	LongDayCostPerHr  float64

	RestDayMaxActivities  int
	RestDayRecovery       float64
	LightDayMaxActivities int
	LightDayRecovery      float64

	BurnoutBelow  int
	NeedRestBelow int
	LowBelow      int
	MinPeriodDays int
	TrendDelta    float64
}

// MealWindow describes when a meal is recognised and where it is ideally placed.
type MealWindow struct {
	Detect   geotime.Interval
	Ideal    geotime.Interval
	Duration int
	Keywords []string
}

type CoverageConfig struct {
	LongGapMinutes       int
	VarietyMinActivities int
	VarietyMaxShare      float64
	EarliestStart        int
	LatestStart          int
	EarlyExemptKeywords  []string
	Meals                map[types.MealType]MealWindow
}

type Config struct {
	Budget   BudgetConfig
	Overload OverloadConfig
	Energy   EnergyConfig
	Coverage CoverageConfig
}

func DefaultConfig() Config {
	return Config{
		Budget: BudgetConfig{DeviationRatio: 0.3, TightRatio: 0.95},
		Overload: OverloadConfig{
			ActivityAllowance: 5,
			LongSpanMinutes:   12 * 60,
			LongSpanPoints:    2,
			BaseSpanMinutes:   10 * 60,
			MinBufferMinutes:  15,
			ModeratePoints:    3,
			HighPoints:        5,
			ExtremePoints:     8,
		},
		Energy: EnergyConfig{
			InitialEnergy:    100,
			JetLagDays:       3,
			JetLagPenalty:    15,
			FatigueRetention: 0.85,
			BaseFatigue:      8,
			IntensityWeights: map[types.Pace]float64{
				types.PaceRelaxed:  5,
				types.PaceModerate: 10,
				types.PaceIntense:  20,
				types.PaceExtreme:  35,
			},
			FreeWalkingKm:     10,
			WalkPerActivityKm: 0.5,
			WalkingFatigue:    1.5,
			ActivityAllowance: 6,
			ExtraActivityCost: 3,
			LongDayMinutes:    10 * 60,
			LongDayCostPerHr:  2,

			RestDayMaxActivities:  2,
			RestDayRecovery:       30,
			LightDayMaxActivities: 4,
			LightDayRecovery:      15,

			BurnoutBelow:  40,
			NeedRestBelow: 50,
			LowBelow:      60,
			MinPeriodDays: 3,
			TrendDelta:    10,
		},
		Coverage: CoverageConfig{
			LongGapMinutes:       180,
			VarietyMinActivities: 4,
			VarietyMaxShare:      0.6,
			EarliestStart:        7 * 60,
			LatestStart:          22 * 60,
			EarlyExemptKeywords:  []string{"market", "mercado", "fish", "sunrise"},
			Meals: map[types.MealType]MealWindow{
				types.MealBreakfast: {
					Detect:   geotime.Interval{Start: 6 * 60, End: 11 * 60},
					Ideal:    geotime.Interval{Start: 7 * 60, End: 10 * 60},
					Duration: 45,
					Keywords: []string{"breakfast", "brunch", "desayuno"},
				},
				types.MealLunch: {
					Detect:   geotime.Interval{Start: 11 * 60, End: 16 * 60},
					Ideal:    geotime.Interval{Start: 12 * 60, End: 14 * 60},
					Duration: 60,
					Keywords: []string{"lunch", "almuerzo"},
				},
				types.MealDinner: {
					Detect:   geotime.Interval{Start: 17 * 60, End: 23 * 60},
					Ideal:    geotime.Interval{Start: 18 * 60, End: 21 * 60},
					Duration: 90,
					Keywords: []string{"dinner", "supper", "cena", "izakaya"},
				},
			},
		},
	}
}
