// Package health runs every analyzer over a trip and aggregates the result
// into a HealthReport.
package health

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-itinerary-health/internal/analyzer"
	"github.com/FACorreiaa/go-itinerary-health/internal/conflict"
	"github.com/FACorreiaa/go-itinerary-health/internal/geotime"
	"github.com/FACorreiaa/go-itinerary-health/internal/travel"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

type Config struct {
	Conflict         conflict.Config
	Travel           travel.Config
	Analyzer         analyzer.Config
	Penalties        Penalties
	Weights          QualityWeights
	HealthyThreshold int
}

func DefaultConfig() Config {
	return Config{
		Conflict:         conflict.DefaultConfig(),
		Travel:           travel.DefaultConfig(),
		Analyzer:         analyzer.DefaultConfig(),
		Penalties:        DefaultPenalties(),
		Weights:          DefaultQualityWeights(),
		HealthyThreshold: 70,
	}
}

// Checker is immutable after construction and safe for concurrent use.
type Checker struct {
	cfg       Config
	estimator *travel.Estimator
	detector  *conflict.Detector
	budget    *analyzer.BudgetAnalyzer
	overload  *analyzer.OverloadAnalyzer
	energy    *analyzer.EnergyPredictor
	coverage  *analyzer.CoverageAnalyzer
}

func NewChecker(cfg Config) (*Checker, error) {
	est, err := travel.NewEstimator(cfg.Travel)
	if err != nil {
		return nil, fmt.Errorf("failed to build travel estimator: %w", err)
	}
	return &Checker{
		cfg:       cfg,
		estimator: est,
		detector:  conflict.NewDetector(cfg.Conflict, est),
		budget:    analyzer.NewBudgetAnalyzer(cfg.Analyzer.Budget),
		overload:  analyzer.NewOverloadAnalyzer(cfg.Analyzer.Overload),
		energy:    analyzer.NewEnergyPredictor(cfg.Analyzer.Energy),
		coverage:  analyzer.NewCoverageAnalyzer(cfg.Analyzer.Coverage),
	}, nil
}

func (c *Checker) Estimator() *travel.Estimator         { return c.estimator }
func (c *Checker) Detector() *conflict.Detector         { return c.detector }
func (c *Checker) Coverage() *analyzer.CoverageAnalyzer { return c.coverage }
func (c *Checker) Overload() *analyzer.OverloadAnalyzer { return c.overload }
func (c *Checker) Config() Config                       { return c.cfg }

type analysis struct {
	issues []types.Issue
	budget types.BudgetReport
	loads  []analyzer.DayLoad
	energy types.EnergyForecast
}

func (c *Checker) run(trip *types.Trip) analysis {
	var a analysis
	for _, d := range trip.Days {
		a.issues = append(a.issues, c.detector.Detect(d)...)
	}
	var more []types.Issue
	a.budget, more = c.budget.Analyze(trip)
	a.issues = append(a.issues, more...)
	a.loads, more = c.overload.Analyze(trip)
	a.issues = append(a.issues, more...)
	a.energy, more = c.energy.Forecast(trip)
	a.issues = append(a.issues, more...)
	a.issues = append(a.issues, c.coverage.Analyze(trip)...)
	SortIssues(a.issues)
	return a
}

// SortIssues orders issues by severity, most severe first, then by day.
// Ties keep detection order.
func SortIssues(issues []types.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Severity != issues[j].Severity {
			return issues[i].Severity > issues[j].Severity
		}
		return issues[i].Day < issues[j].Day
	})
}

// Issues re-derives every issue of the trip from its current state.
func (c *Checker) Issues(trip *types.Trip) []types.Issue {
	return c.run(trip).issues
}

// Check analyzes the trip. The trip is not modified.
func (c *Checker) Check(trip *types.Trip) types.HealthReport {
	a := c.run(trip)

	report := types.HealthReport{
		Score:       Score(a.issues, c.cfg.Penalties),
		Critical:    []types.Issue{},
		Warnings:    []types.Issue{},
		Suggestions: []types.Issue{},
		Budget:      a.budget,
		Energy:      a.energy,
	}
	if trip.ID != uuid.Nil {
		report.TripID = trip.ID.String()
	}
	for _, is := range a.issues {
		switch is.Severity {
		case types.SeverityCritical:
			report.Critical = append(report.Critical, is)
		case types.SeverityWarning:
			report.Warnings = append(report.Warnings, is)
		default:
			report.Suggestions = append(report.Suggestions, is)
		}
	}
	report.Verdict = Verdict(report.Score)
	report.Healthy = report.Score >= c.cfg.HealthyThreshold
	report.Metrics = c.metrics(trip, a)
	report.LongTransfers = c.longTransfers(trip)
	report.Quality = Quality(c.qualityInputs(trip, a), c.cfg.Weights)
	return report
}

func (c *Checker) metrics(trip *types.Trip, a analysis) types.Metrics {
	m := types.Metrics{
		TotalDays:            len(trip.Days),
		ActivitiesByCategory: make(map[types.Category]int),
		TotalEstimatedCost:   a.budget.TotalSpent,
		EnergyTrend:          a.energy.Trend,
		EnergyCurve:          make([]int, 0, len(a.energy.Curve)),
	}
	for _, d := range trip.Days {
		m.TotalActivities += len(d.Activities)
		for _, act := range d.Activities {
			m.ActivitiesByCategory[act.Category]++
		}
	}
	if m.TotalDays > 0 {
		m.AvgActivitiesPerDay = math.Round(float64(m.TotalActivities)/float64(m.TotalDays)*10) / 10
	}
	for _, l := range a.loads {
		if l.Level == types.FatigueHigh || l.Level == types.FatigueExtreme {
			m.OverloadedDays++
		}
	}
	for _, pt := range a.energy.Curve {
		m.EnergyCurve = append(m.EnergyCurve, pt.Energy)
	}
	return m
}

func (c *Checker) longTransfers(trip *types.Trip) []types.TravelLeg {
	var legs []types.TravelLeg
	for _, d := range trip.Days {
		slots := geotime.Timeline(d)
		for i := 0; i+1 < len(slots); i++ {
			est, ok := c.estimator.Activities(slots[i].Activity, slots[i+1].Activity)
			if !ok || est.Warning == "" {
				continue
			}
			legs = append(legs, types.TravelLeg{
				Day:        d.Number,
				From:       slots[i].Activity.Title,
				To:         slots[i+1].Activity.Title,
				DistanceKm: math.Round(est.DistanceKm*10) / 10,
				Mode:       est.Mode,
				Minutes:    est.Minutes,
				Cost:       est.Cost,
				Warning:    est.Warning,
			})
		}
	}
	return legs
}

func (c *Checker) qualityInputs(trip *types.Trip, a analysis) QualityInputs {
	var transitions, broken int
	for _, d := range trip.Days {
		if n := len(geotime.Timeline(d)); n > 1 {
			transitions += n - 1
		}
	}
	for _, is := range a.issues {
		switch is.Kind {
		case types.KindOverlap, types.KindTightTransfer, types.KindUnreachableTransfer:
			broken++
		}
	}

	var budgetSum float64
	var budgeted int
	adherence := func(spent, budget float64) {
		if budget <= 0 {
			return
		}
		budgeted++
		if spent <= budget {
			budgetSum++
			return
		}
		budgetSum += budget / spent
	}
	for _, dc := range a.budget.Days {
		adherence(dc.Total, dc.Budget)
	}
	adherence(a.budget.TotalSpent, a.budget.TotalBudget)
	budgetScore := 1.0
	if budgeted > 0 {
		budgetScore = budgetSum / float64(budgeted)
	}

	energy := 1.0
	if len(a.energy.Curve) > 0 {
		var sum int
		for _, pt := range a.energy.Curve {
			sum += pt.Energy
		}
		energy = float64(sum) / float64(len(a.energy.Curve)) / 100
	}

	var planned, mealsCovered int
	for _, d := range trip.Days {
		if len(d.Activities) == 0 {
			continue
		}
		planned++
		for _, meal := range types.Meals {
			if c.coverage.HasMeal(d, meal) {
				mealsCovered++
			}
		}
	}

	return QualityInputs{
		Feasibility: ratio(transitions-broken, transitions),
		Budget:      clamp01(budgetScore),
		Energy:      clamp01(energy),
		Meals:       ratio(mealsCovered, planned*len(types.Meals)),
		Utilization: ratio(planned, len(trip.Days)),
	}
}
