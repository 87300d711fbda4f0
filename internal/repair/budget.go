package repair

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/FACorreiaa/go-itinerary-health/internal/analyzer"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

type activityRef struct {
	day, act int
}

// reduceBudget swaps expensive activities in the over-budget scope for a
// cheaper venue of the same category, keeping their time slot. An activity
// that was already swapped is never swapped again.
func (e *Engine) reduceBudget(ctx context.Context, trip *types.Trip, issue types.Issue) (string, error) {
	detail, ok := issue.Detail.(types.BudgetExceededDetail)
	if !ok {
		return "", fmt.Errorf("issue %s carries no budget detail", issue.ID)
	}

	var scope []int
	switch detail.Scope {
	case types.BudgetScopeTrip:
		var spent float64
		for _, d := range trip.Days {
			spent += analyzer.DayTotal(d)
		}
		if trip.Budget == nil || spent <= *trip.Budget {
			return "", ErrNothingToResolve
		}
		for i := range trip.Days {
			scope = append(scope, i)
		}
	default:
		idx := dayIndex(trip, issue.Day)
		if idx < 0 {
			return "", fmt.Errorf("day %d not found", issue.Day)
		}
		budget := trip.DayBudget(trip.Days[idx])
		if budget <= 0 || analyzer.DayTotal(trip.Days[idx]) <= budget {
			return "", ErrNothingToResolve
		}
		scope = []int{idx}
	}

	next := trip.Clone()
	var expensive []activityRef
	for _, di := range scope {
		for ai, a := range next.Days[di].Activities {
			if a.CostValue() > e.cfg.HighCostThreshold && a.SwappedFrom == "" {
				expensive = append(expensive, activityRef{day: di, act: ai})
			}
		}
	}
	if len(expensive) == 0 {
		return "", fmt.Errorf("no activity above %.0f left to swap", e.cfg.HighCostThreshold)
	}
	sort.SliceStable(expensive, func(i, j int) bool {
		a := next.Days[expensive[i].day].Activities[expensive[i].act]
		b := next.Days[expensive[j].day].Activities[expensive[j].act]
		return a.CostValue() > b.CostValue()
	})

	cur := analyzer.Currency(trip)
	var (
		swaps   []string
		lastErr error
	)
	for _, ref := range expensive {
		day := &next.Days[ref.day]
		a := &day.Activities[ref.act]
		anchor := a.Coordinate
		if anchor == nil {
			anchor = day.Base
		}
		if anchor == nil {
			continue
		}
		cands, err := e.candidates(ctx, day, *anchor, []types.Category{a.Category})
		if err != nil {
			lastErr = err
			continue
		}
		limit := a.CostValue() * e.cfg.CheaperRatio
		for _, c := range cands {
			if c.Category != a.Category || c.Cost == nil || *c.Cost > limit {
				continue
			}
			saved := a.CostValue() - *c.Cost
			cost, coord := *c.Cost, c.Coordinate
			swaps = append(swaps, fmt.Sprintf("%s for %s (saves %.0f %s)", a.Title, c.Name, saved, cur))
			a.SwappedFrom = a.Title
			a.Title = c.Name
			a.Cost = &cost
			a.Coordinate = &coord
			a.Location = c.Address
			a.Rating = c.Rating
			break
		}
	}
	if len(swaps) == 0 {
		err := errors.New("no cheaper alternative of the same category found")
		if lastErr != nil {
			err = fmt.Errorf("%w: %w", err, lastErr)
		}
		return "", err
	}

	trip.Days = next.Days
	return "Swapped " + strings.Join(swaps, "; "), nil
}
