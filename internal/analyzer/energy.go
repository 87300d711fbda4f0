package analyzer

import (
	"fmt"
	"math"

	"github.com/FACorreiaa/go-itinerary-health/internal/geotime"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// EnergyPredictor forecasts a traveller's energy day by day from accumulated
// fatigue, jet lag and recovery days.
type EnergyPredictor struct {
	cfg EnergyConfig
}

func NewEnergyPredictor(cfg EnergyConfig) *EnergyPredictor {
	return &EnergyPredictor{cfg: cfg}
}

// WalkingKm estimates the distance walked: the legs between consecutive
// activities with coordinates plus a fixed allowance per activity.
func (p *EnergyPredictor) WalkingKm(day types.Day) float64 {
	var km float64
	for i := 0; i+1 < len(day.Activities); i++ {
		a, b := day.Activities[i].Coordinate, day.Activities[i+1].Coordinate
		if a != nil && b != nil {
			km += geotime.DistanceKm(*a, *b)
		}
	}
	return km + float64(len(day.Activities))*p.cfg.WalkPerActivityKm
}

// DayFatigue is the fatigue a single day adds before carry-over.
func (p *EnergyPredictor) DayFatigue(day types.Day) float64 {
	f := p.cfg.BaseFatigue
	weight, ok := p.cfg.IntensityWeights[day.PaceOrDefault()]
	if !ok {
		weight = p.cfg.IntensityWeights[types.PaceModerate]
	}
	f += weight

	if extra := len(day.Activities) - p.cfg.ActivityAllowance; extra > 0 {
		f += float64(extra) * p.cfg.ExtraActivityCost
	}
	if walk := p.WalkingKm(day); walk > p.cfg.FreeWalkingKm {
		f += (walk - p.cfg.FreeWalkingKm) * p.cfg.WalkingFatigue
	}
	var total int
	for _, a := range day.Activities {
		total += a.DurationMinutes()
	}
	if total > p.cfg.LongDayMinutes {
		f += float64(total-p.cfg.LongDayMinutes) / 60 * p.cfg.LongDayCostPerHr
	}
	return f
}

func (p *EnergyPredictor) isRestDay(day types.Day) bool {
	return day.RestDay || len(day.Activities) <= p.cfg.RestDayMaxActivities
}

func (p *EnergyPredictor) isLightDay(day types.Day) bool {
	return len(day.Activities) <= p.cfg.LightDayMaxActivities && day.PaceOrDefault() == types.PaceRelaxed
}

func (p *EnergyPredictor) band(energy int) types.EnergyBand {
	switch {
	case energy < p.cfg.BurnoutBelow:
		return types.EnergyBurnout
	case energy < p.cfg.NeedRestBelow:
		return types.EnergyNeedRest
	case energy < p.cfg.LowBelow:
		return types.EnergyLow
	default:
		return types.EnergyGood
	}
}

// Curve computes the energy point of every day. Energy is clamped to [0,100].
func (p *EnergyPredictor) Curve(trip *types.Trip) []types.EnergyPoint {
	curve := make([]types.EnergyPoint, 0, len(trip.Days))
	var fatigue float64
	for i, d := range trip.Days {
		n := i + 1
		fatigue = fatigue*p.cfg.FatigueRetention + p.DayFatigue(d)
		energy := p.cfg.InitialEnergy - fatigue

		var jetLag float64
		if n <= p.cfg.JetLagDays {
			jetLag = p.cfg.JetLagPenalty * (1 - float64(n-1)/float64(p.cfg.JetLagDays))
			energy -= jetLag
		}

		rest := p.isRestDay(d)
		switch {
		case rest:
			energy += p.cfg.RestDayRecovery
			fatigue = math.Max(0, fatigue-p.cfg.RestDayRecovery)
		case p.isLightDay(d):
			energy += p.cfg.LightDayRecovery
		}

		e := int(math.Round(math.Max(0, math.Min(100, energy))))
		curve = append(curve, types.EnergyPoint{
			Day:     d.Number,
			Energy:  e,
			Fatigue: math.Round(fatigue*10) / 10,
			Band:    p.band(e),
			RestDay: rest,
			JetLag:  jetLag,
		})
	}
	return curve
}

// Periods finds runs of at least MinPeriodDays consecutive low-energy days.
func (p *EnergyPredictor) Periods(curve []types.EnergyPoint) []types.LowEnergyPeriod {
	var periods []types.LowEnergyPeriod
	var cur *types.LowEnergyPeriod
	flush := func() {
		if cur != nil && cur.Length >= p.cfg.MinPeriodDays {
			periods = append(periods, *cur)
		}
		cur = nil
	}
	for _, pt := range curve {
		if pt.Energy >= p.cfg.LowBelow {
			flush()
			continue
		}
		if cur == nil {
			cur = &types.LowEnergyPeriod{StartDay: pt.Day, MinEnergy: pt.Energy}
		}
		cur.EndDay = pt.Day
		cur.Length++
		cur.MinEnergy = min(cur.MinEnergy, pt.Energy)
	}
	flush()
	return periods
}

// Trend compares the mean energy of the first and last thirds of the trip.
func (p *EnergyPredictor) Trend(curve []types.EnergyPoint) types.EnergyTrend {
	if len(curve) < 3 {
		return types.TrendStable
	}
	third := len(curve) / 3
	diff := meanEnergy(curve[len(curve)-third:]) - meanEnergy(curve[:third])
	switch {
	case diff < -p.cfg.TrendDelta:
		return types.TrendDeclining
	case diff > p.cfg.TrendDelta:
		return types.TrendImproving
	default:
		return types.TrendStable
	}
}

func meanEnergy(points []types.EnergyPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum int
	for _, pt := range points {
		sum += pt.Energy
	}
	return float64(sum) / float64(len(points))
}

// Forecast builds the full energy forecast and its issues. Days inside a
// low-energy period are reported once through the period, never one by one.
func (p *EnergyPredictor) Forecast(trip *types.Trip) (types.EnergyForecast, []types.Issue) {
	curve := p.Curve(trip)
	periods := p.Periods(curve)
	fc := types.EnergyForecast{
		Curve:         curve,
		Periods:       periods,
		Trend:         p.Trend(curve),
		AverageEnergy: math.Round(meanEnergy(curve)),
	}

	inPeriod := make(map[int]bool)
	var issues []types.Issue
	for _, per := range periods {
		for d := per.StartDay; d <= per.EndDay; d++ {
			inPeriod[d] = true
		}
		issues = append(issues, types.NewIssue(
			fmt.Sprintf("low_energy_period:d%d-d%d", per.StartDay, per.EndDay),
			types.SeverityCritical, types.SourceEnergy, per.StartDay,
			types.LowEnergyPeriodDetail(per),
			fmt.Sprintf("Energy stays low from day %d to day %d (%d days, minimum %d)", per.StartDay, per.EndDay, per.Length, per.MinEnergy),
		))
	}

	var burnout, needRest int
	for _, pt := range curve {
		if pt.RestDay {
			fc.RestDays++
		}
		switch pt.Band {
		case types.EnergyBurnout:
			burnout++
		case types.EnergyNeedRest:
			needRest++
		}
		if pt.Band == types.EnergyGood || inPeriod[pt.Day] {
			continue
		}
		sev := types.SeveritySuggestion
		if pt.Band == types.EnergyBurnout {
			sev = types.SeverityWarning
		}
		issues = append(issues, types.NewIssue(
			fmt.Sprintf("low_energy:d%d", pt.Day),
			sev, types.SourceEnergy, pt.Day,
			types.LowEnergyDayDetail{Energy: pt.Energy, Band: pt.Band},
			fmt.Sprintf("Energy on day %d is forecast at %d (%s)", pt.Day, pt.Energy, pt.Band),
		))
	}

	fc.Severity = severityLevel(burnout*3 + needRest*2 + len(periods)*4)
	fc.Score = energyScore(burnout, needRest, len(periods), fc.Trend, fc.AverageEnergy)
	fc.Recommendations = p.recommend(trip, curve, periods, fc.Trend, burnout)
	return fc, issues
}

func severityLevel(score int) string {
	switch {
	case score >= 10:
		return "high"
	case score >= 5:
		return "medium"
	case score > 0:
		return "low"
	default:
		return "none"
	}
}

func energyScore(burnout, needRest, periods int, trend types.EnergyTrend, avg float64) int {
	score := 100 - burnout*15 - needRest*8 - periods*12
	if trend == types.TrendDeclining {
		score -= 10
	}
	if avg > 70 {
		score += 5
	}
	if avg > 80 {
		score += 5
	}
	return max(0, min(100, score))
}

func (p *EnergyPredictor) recommend(trip *types.Trip, curve []types.EnergyPoint, periods []types.LowEnergyPeriod, trend types.EnergyTrend, burnout int) []types.Recommendation {
	var recs []types.Recommendation
	if burnout > 0 {
		recs = append(recs, types.Recommendation{
			Type:    "reduce_activities",
			Message: fmt.Sprintf("%d day(s) risk burnout; drop activities or add rest", burnout),
		})
	}
	for _, per := range periods {
		recs = append(recs, types.Recommendation{
			Type:    "insert_rest_day",
			Day:     (per.StartDay + per.EndDay) / 2,
			Message: fmt.Sprintf("Insert a rest day between day %d and day %d", per.StartDay, per.EndDay),
		})
	}
	if trend == types.TrendDeclining {
		recs = append(recs, types.Recommendation{
			Type:    "redistribute_intensity",
			Message: "Energy declines through the trip; move intense days earlier",
		})
	}
	var jetLagged int
	for _, pt := range curve {
		if pt.JetLag > 0 && pt.Energy < p.cfg.LowBelow {
			jetLagged++
		}
	}
	if jetLagged >= 2 {
		recs = append(recs, types.Recommendation{
			Type:    "lighten_first_days",
			Message: "Jet lag weighs on the first days; plan lighter activities early",
		})
	}
	for _, d := range trip.Days {
		if len(d.Activities) > 7 {
			recs = append(recs, types.Recommendation{
				Type:    "reduce_daily_activities",
				Day:     d.Number,
				Message: fmt.Sprintf("Day %d has %d activities; five or six is sustainable", d.Number, len(d.Activities)),
			})
		}
	}
	var rest int
	for _, pt := range curve {
		if pt.RestDay {
			rest++
		}
	}
	if len(curve) > 7 && rest == 0 {
		recs = append(recs, types.Recommendation{
			Type:    "add_rest_day",
			Day:     len(curve) / 2,
			Message: fmt.Sprintf("A %d-day trip should include at least one rest day", len(curve)),
		})
	}
	return recs
}
