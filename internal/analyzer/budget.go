package analyzer

import (
	"fmt"
	"math"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

type BudgetAnalyzer struct {
	cfg BudgetConfig
}

func NewBudgetAnalyzer(cfg BudgetConfig) *BudgetAnalyzer {
	return &BudgetAnalyzer{cfg: cfg}
}

// Currency returns the trip currency, JPY when unset.
func Currency(t *types.Trip) string {
	if t.Currency == "" {
		return "JPY"
	}
	return t.Currency
}

// DayTotal sums the known activity costs of a day.
func DayTotal(d types.Day) float64 {
	var total float64
	for _, a := range d.Activities {
		total += a.CostValue()
	}
	return total
}

// Analyze totals spend per day and reports overruns against day and trip
// budgets, plus days that stray far from the mean.
func (b *BudgetAnalyzer) Analyze(trip *types.Trip) (types.BudgetReport, []types.Issue) {
	cur := Currency(trip)
	report := types.BudgetReport{Currency: cur, Days: make([]types.DayCost, 0, len(trip.Days))}
	var issues []types.Issue

	for _, d := range trip.Days {
		dc := types.DayCost{Day: d.Number, Total: DayTotal(d), Budget: trip.DayBudget(d)}
		report.Days = append(report.Days, dc)
		report.TotalSpent += dc.Total

		if dc.Budget > 0 && dc.Total > dc.Budget {
			over := dc.Total - dc.Budget
			issue := types.NewIssue(
				fmt.Sprintf("budget:d%d", d.Number),
				types.SeverityCritical, types.SourceBudget, d.Number,
				types.BudgetExceededDetail{Scope: types.BudgetScopeDay, Spent: dc.Total, Budget: dc.Budget, Overage: over},
				fmt.Sprintf("Day %d spends %.0f %s, %.0f over its %.0f budget", d.Number, dc.Total, cur, over, dc.Budget),
			)
			issue.Fix = types.FixReduceBudget
			issues = append(issues, issue)
		}
	}

	if trip.Budget != nil && *trip.Budget > 0 {
		budget := *trip.Budget
		report.TotalBudget = budget
		switch {
		case report.TotalSpent > budget:
			over := report.TotalSpent - budget
			issue := types.NewIssue(
				"budget:trip",
				types.SeverityCritical, types.SourceBudget, 0,
				types.BudgetExceededDetail{Scope: types.BudgetScopeTrip, Spent: report.TotalSpent, Budget: budget, Overage: over},
				fmt.Sprintf("Trip spends %.0f %s, %.0f over its %.0f budget", report.TotalSpent, cur, over, budget),
			)
			issue.Fix = types.FixReduceBudget
			issues = append(issues, issue)
		case report.TotalSpent > budget*b.cfg.TightRatio:
			issues = append(issues, types.NewIssue(
				"budget_tight:trip",
				types.SeverityWarning, types.SourceBudget, 0,
				types.BudgetTightDetail{Spent: report.TotalSpent, Budget: budget},
				fmt.Sprintf("Trip uses %.0f%% of its budget, leaving little margin", report.TotalSpent/budget*100),
			))
		}
	}

	if n := len(report.Days); n > 0 {
		report.MeanPerDay = report.TotalSpent / float64(n)
	}
	report.MostExpensive, report.LeastExpensive = extremes(report.Days)

	if len(report.Days) >= 2 && report.MeanPerDay > 0 {
		for _, dc := range report.Days {
			dev := math.Abs(dc.Total-report.MeanPerDay) / report.MeanPerDay
			if dev <= b.cfg.DeviationRatio {
				continue
			}
			issues = append(issues, types.NewIssue(
				fmt.Sprintf("budget_dev:d%d", dc.Day),
				types.SeveritySuggestion, types.SourceBudget, dc.Day,
				types.BudgetDeviationDetail{Cost: dc.Total, Mean: report.MeanPerDay, DeviationPct: dev * 100},
				fmt.Sprintf("Day %d spend differs %.0f%% from the daily average", dc.Day, dev*100),
			))
		}
	}
	return report, issues
}

// extremes returns the most expensive day and the cheapest day that has any
// spend at all.
func extremes(days []types.DayCost) (*types.DayCost, *types.DayCost) {
	var most, least *types.DayCost
	for i := range days {
		d := days[i]
		if most == nil || d.Total > most.Total {
			most = &d
		}
		if d.Total > 0 && (least == nil || d.Total < least.Total) {
			least = &d
		}
	}
	return most, least
}
