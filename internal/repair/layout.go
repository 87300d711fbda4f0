package repair

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/FACorreiaa/go-itinerary-health/internal/geotime"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// resolveOverlap re-lays the whole day out back to back from the first
// start, keeping timeline order and leaving the buffer (or the travel time)
// between consecutive activities. Nudging a single pair can push the next
// one into a new overlap, so the whole timeline is rebuilt.
func (e *Engine) resolveOverlap(_ context.Context, _ *types.Trip, day *types.Day, _ types.Issue) (string, error) {
	slots := geotime.Timeline(*day)
	if len(slots) < 2 {
		return "", ErrNothingToResolve
	}

	crowded := false
	end := slots[0].End
	for i := 1; i < len(slots); i++ {
		if slots[i].Start-end < e.buffer(slots[i-1].Activity, slots[i].Activity) {
			crowded = true
			break
		}
		end = max(end, slots[i].End)
	}
	if !crowded {
		return "", ErrNothingToResolve
	}

	starts := make([]int, len(slots))
	cursor := slots[0].Start
	for i, s := range slots {
		if i > 0 {
			cursor += e.buffer(slots[i-1].Activity, s.Activity)
		}
		starts[i] = cursor
		cursor += s.Activity.DurationMinutes()
		if starts[i] >= geotime.MinutesPerDay || cursor > geotime.MinutesPerDay {
			return "", fmt.Errorf("re-laid day %d would run past midnight", day.Number)
		}
	}

	var moved []string
	for i, s := range slots {
		if starts[i] == s.Start {
			continue
		}
		a := &day.Activities[s.Index]
		a.Time = geotime.FormatTime(starts[i])
		moved = append(moved, fmt.Sprintf("%s to %s", a.Title, a.Time))
	}
	return fmt.Sprintf("Re-timed day %d: moved %s", day.Number, strings.Join(moved, ", ")), nil
}

// priority ranks how much an activity is worth keeping on a crowded day.
func (e *Engine) priority(a types.Activity) int {
	p := 0
	if a.IsMeal() {
		p += e.cfg.Priority.Meal
	}
	if a.MustSee {
		p += e.cfg.Priority.MustSee
	}
	if a.CostValue() > e.cfg.HighCostThreshold {
		p += e.cfg.Priority.HighCost
	}
	if a.Rating >= e.cfg.HighRating {
		p += e.cfg.Priority.HighRating
	}
	return p
}

// balanceDay keeps the highest priority activities up to the configured
// maximum. Ties go to the earlier activity and the kept activities come out
// in timeline order, untimed ones last in their original order.
func (e *Engine) balanceDay(_ context.Context, _ *types.Trip, day *types.Day, _ types.Issue) (string, error) {
	if len(day.Activities) <= e.cfg.MaxActivities {
		return "", ErrNothingToResolve
	}

	order := chronological(*day)
	ranked := append([]int(nil), order...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return e.priority(day.Activities[ranked[i]]) > e.priority(day.Activities[ranked[j]])
	})
	keep := make(map[int]bool, e.cfg.MaxActivities)
	for _, idx := range ranked[:e.cfg.MaxActivities] {
		keep[idx] = true
	}

	kept := make([]types.Activity, 0, e.cfg.MaxActivities)
	var dropped []string
	for _, i := range order {
		a := day.Activities[i]
		if keep[i] {
			kept = append(kept, a)
			continue
		}
		dropped = append(dropped, a.Title)
	}
	day.Activities = kept
	return fmt.Sprintf("Removed %d activities from day %d: %s", len(dropped), day.Number, strings.Join(dropped, ", ")), nil
}

// chronological lists activity indexes with timed activities first in start
// order, then untimed ones in list order.
func chronological(day types.Day) []int {
	order := make([]int, 0, len(day.Activities))
	for _, s := range geotime.Timeline(day) {
		order = append(order, s.Index)
	}
	for i, a := range day.Activities {
		if !a.HasStart() {
			order = append(order, i)
		}
	}
	return order
}
