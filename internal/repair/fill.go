package repair

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/FACorreiaa/go-itinerary-health/internal/analyzer"
	"github.com/FACorreiaa/go-itinerary-health/internal/geotime"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

var (
	errNoPlaces     = errors.New("no places lookup configured")
	errNoCandidates = errors.New("no nearby candidates found")
	errNoAnchor     = errors.New("no location to search near")
)

// candidates asks the places lookup for venues near center and ranks them by
// rating, then name. Venues already on the day are skipped.
func (e *Engine) candidates(ctx context.Context, day *types.Day, center types.Coordinate, cats []types.Category) ([]types.Candidate, error) {
	if e.places == nil {
		return nil, errNoPlaces
	}
	found, err := e.places.SearchNear(ctx, types.PlaceQuery{
		Center:       center,
		RadiusMeters: e.cfg.SearchRadius,
		Categories:   cats,
		MaxResults:   e.cfg.MaxCandidates,
		City:         day.City(),
	})
	if err != nil {
		e.logger.WarnContext(ctx, "Places lookup failed", slog.Int("day", day.Number), slog.Any("error", err))
		return nil, fmt.Errorf("places lookup failed: %w", err)
	}

	seen := make(map[string]bool, len(day.Activities)+len(found))
	for _, a := range day.Activities {
		seen[strings.ToLower(strings.TrimSpace(a.Title))] = true
	}
	out := make([]types.Candidate, 0, len(found))
	for _, c := range found {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, errNoCandidates
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// fromCandidate builds an activity for a suggested venue.
func fromCandidate(id string, c types.Candidate, fallback types.Category, start, minutes int) types.Activity {
	cat := c.Category
	if cat == "" || cat == types.CategoryOther {
		cat = fallback
	}
	coord := c.Coordinate
	var cost *float64
	if c.Cost != nil {
		v := *c.Cost
		cost = &v
	}
	return types.Activity{
		ID:         id,
		Title:      c.Name,
		Category:   cat,
		Time:       geotime.FormatTime(start),
		Duration:   &minutes,
		Coordinate: &coord,
		Cost:       cost,
		Location:   c.Address,
		Rating:     c.Rating,
	}
}

func insertAt(acts []types.Activity, idx int, a types.Activity) []types.Activity {
	acts = append(acts, types.Activity{})
	copy(acts[idx+1:], acts[idx:])
	acts[idx] = a
	return acts
}

// insertByTime places a before the first timed activity starting after it.
func insertByTime(acts []types.Activity, a types.Activity) []types.Activity {
	start := geotime.ParseTime(a.Time)
	for i, other := range acts {
		if other.HasStart() && geotime.ParseTime(other.Time) > start {
			return insertAt(acts, i, a)
		}
	}
	return append(acts, a)
}

func clockID(prefix string, day, minute int) string {
	return fmt.Sprintf("%s-d%d-%s", prefix, day, strings.ReplaceAll(geotime.FormatTime(minute), ":", ""))
}

// fillDay plans a few stops around the day's base from the configured start.
func (e *Engine) fillDay(ctx context.Context, _ *types.Trip, day *types.Day, _ types.Issue) (string, error) {
	if len(day.Activities) > 0 {
		return "", ErrNothingToResolve
	}
	if day.Base == nil {
		return "", fmt.Errorf("day %d has no base: %w", day.Number, errNoAnchor)
	}
	cats := []types.Category{types.CategorySightseeing, types.CategoryCulture, types.CategoryNature}
	cands, err := e.candidates(ctx, day, *day.Base, cats)
	if err != nil {
		return "", err
	}

	var planned []types.Activity
	cursor := e.cfg.FillDayStart
	for _, c := range cands {
		if len(planned) == e.cfg.FillDayStops {
			break
		}
		next := fromCandidate("", c, types.CategorySightseeing, cursor, types.DefaultActivityMinutes)
		if n := len(planned); n > 0 {
			cursor = geotime.ParseTime(planned[n-1].Time) + planned[n-1].DurationMinutes() + e.buffer(planned[n-1], next)
		}
		if cursor+types.DefaultActivityMinutes > geotime.MinutesPerDay {
			break
		}
		next.Time = geotime.FormatTime(cursor)
		next.ID = clockID("fill", day.Number, cursor)
		planned = append(planned, next)
	}
	if len(planned) == 0 {
		return "", errNoCandidates
	}

	names := make([]string, len(planned))
	for i, a := range planned {
		names[i] = a.Title
	}
	day.Activities = planned
	return fmt.Sprintf("Planned %d stops on day %d: %s", len(planned), day.Number, strings.Join(names, ", ")), nil
}

// issueSlot reports whether s is the n-th activity the issue refers to.
func issueSlot(s geotime.Slot, issue types.Issue, n int) bool {
	if n < len(issue.ActivityIDs) && issue.ActivityIDs[n] != "" {
		return s.Activity.ID == issue.ActivityIDs[n]
	}
	return n < len(issue.Activities) && s.Index == issue.Activities[n]
}

// gapAround finds the two consecutive slots the gap issue refers to.
func gapAround(day types.Day, issue types.Issue) (geotime.Slot, geotime.Slot, bool) {
	slots := geotime.Timeline(day)
	for i := 0; i+1 < len(slots); i++ {
		if issueSlot(slots[i], issue, 0) && issueSlot(slots[i+1], issue, 1) {
			return slots[i], slots[i+1], true
		}
	}
	return geotime.Slot{}, geotime.Slot{}, false
}

// anchorBetween picks where to search for something placed between two
// activities: their midpoint, whichever has coordinates, or the day's base.
func anchorBetween(day types.Day, before, after *types.Activity) (types.Coordinate, bool) {
	switch {
	case before != nil && after != nil && before.Coordinate != nil && after.Coordinate != nil:
		return geotime.Midpoint(*before.Coordinate, *after.Coordinate), true
	case before != nil && before.Coordinate != nil:
		return *before.Coordinate, true
	case after != nil && after.Coordinate != nil:
		return *after.Coordinate, true
	case day.Base != nil:
		return *day.Base, true
	}
	return types.Coordinate{}, false
}

// fillGap inserts one suggested venue centred in a long idle gap. Short gaps
// get a cafe or a park, longer ones a museum or an attraction.
func (e *Engine) fillGap(ctx context.Context, _ *types.Trip, day *types.Day, issue types.Issue) (string, error) {
	before, after, ok := gapAround(*day, issue)
	if !ok {
		return "", ErrNothingToResolve
	}
	gap := before.GapTo(after.Interval)
	if gap <= e.coverage.Config().LongGapMinutes {
		return "", ErrNothingToResolve
	}

	cats := []types.Category{types.CategoryCulture, types.CategorySightseeing}
	minutes := e.cfg.LongFillMinutes
	if gap <= e.cfg.ShortGapMinutes {
		cats = []types.Category{types.CategoryFood, types.CategoryNature}
		minutes = e.cfg.ShortFillMinutes
	}
	minutes = min(minutes, gap-2*e.cfg.MinBufferMinutes)
	if minutes <= 0 {
		return "", fmt.Errorf("gap of %d minutes leaves no room after buffers", gap)
	}

	anchor, ok := anchorBetween(*day, &before.Activity, &after.Activity)
	if !ok {
		return "", errNoAnchor
	}
	cands, err := e.candidates(ctx, day, anchor, cats)
	if err != nil {
		return "", err
	}

	start := before.End + (gap-minutes)/2
	act := fromCandidate(clockID("gap", day.Number, start), cands[0], cats[0], start, minutes)
	day.Activities = insertAt(day.Activities, before.Index+1, act)
	return fmt.Sprintf("Added %s at %s on day %d", act.Title, act.Time, day.Number), nil
}

type freeTime struct {
	from, to int
}

func (f freeTime) length() int { return f.to - f.from }

// mealSlot picks a start for a meal of w.Duration minutes, preferring in
// order: free time inside the ideal window, the morning before the first
// activity, the evening after the last one and finally the largest free
// block of the day.
func (e *Engine) mealSlot(day types.Day, w analyzer.MealWindow) (int, error) {
	dur, buf := w.Duration, e.cfg.MinBufferMinutes
	slots := geotime.Timeline(day)
	if len(slots) == 0 {
		return w.Ideal.Midpoint() - dur/2, nil
	}

	var gaps []freeTime
	end := slots[0].End
	for _, s := range slots[1:] {
		if s.Start > end {
			gaps = append(gaps, freeTime{from: end, to: s.Start})
		}
		end = max(end, s.End)
	}
	centred := func(f freeTime) int { return f.from + (f.length()-dur)/2 }
	fits := func(f freeTime) bool { return f.length() >= dur+buf }

	best, bestDist := -1, 0
	for i, g := range gaps {
		mid := g.from + g.length()/2
		if !fits(g) || !w.Ideal.Contains(mid) {
			continue
		}
		dist := abs(mid - w.Ideal.Midpoint())
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best >= 0 {
		return centred(gaps[best]), nil
	}

	if latest := slots[0].Start - buf - dur; latest >= w.Ideal.Start {
		return min(w.Ideal.Midpoint()-dur/2, latest), nil
	}
	if earliest := end + buf; earliest+dur <= w.Ideal.End && earliest+dur <= geotime.MinutesPerDay {
		return max(w.Ideal.Midpoint()-dur/2, earliest), nil
	}

	best = -1
	for i, g := range gaps {
		if fits(g) && (best < 0 || g.length() > gaps[best].length()) {
			best = i
		}
	}
	if best >= 0 {
		return centred(gaps[best]), nil
	}
	return 0, fmt.Errorf("no free slot of %d minutes", dur)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// neighbours returns the activities right before and after minute.
func neighbours(day types.Day, minute int) (*types.Activity, *types.Activity) {
	var before, after *types.Activity
	for _, s := range geotime.Timeline(day) {
		a := day.Activities[s.Index]
		if s.Start <= minute {
			before = &a
			continue
		}
		after = &a
		break
	}
	return before, after
}

// insertMeal adds the missing meal at the best available slot, named after a
// nearby restaurant when the places lookup has one.
func (e *Engine) insertMeal(ctx context.Context, _ *types.Trip, day *types.Day, issue types.Issue) (string, error) {
	detail, ok := issue.Detail.(types.MissingMealDetail)
	if !ok {
		return "", fmt.Errorf("issue %s does not name a meal", issue.ID)
	}
	w, ok := e.coverage.Config().Meals[detail.Meal]
	if !ok {
		return "", fmt.Errorf("unknown meal %q", detail.Meal)
	}
	if e.coverage.HasMeal(*day, detail.Meal) {
		return "", ErrNothingToResolve
	}

	start, err := e.mealSlot(*day, w)
	if err != nil {
		return "", fmt.Errorf("cannot place %s: %w", detail.Meal, err)
	}

	label := strings.ToUpper(string(detail.Meal[:1])) + string(detail.Meal[1:])
	minutes := w.Duration
	meal := types.Activity{
		ID:       fmt.Sprintf("meal-d%d-%s", day.Number, detail.Meal),
		Title:    label + " break",
		Category: types.CategoryFood,
		Time:     geotime.FormatTime(start),
		Duration: &minutes,
		Meal:     true,
	}
	before, after := neighbours(*day, start)
	if anchor, ok := anchorBetween(*day, before, after); ok && e.places != nil {
		if cands, err := e.candidates(ctx, day, anchor, []types.Category{types.CategoryFood}); err == nil {
			named := fromCandidate(meal.ID, cands[0], types.CategoryFood, start, minutes)
			named.Title = fmt.Sprintf("%s at %s", label, cands[0].Name)
			named.Category = types.CategoryFood
			named.Meal = true
			meal = named
		}
	}

	day.Activities = insertByTime(day.Activities, meal)
	return fmt.Sprintf("Added %s at %s on day %d", meal.Title, meal.Time, day.Number), nil
}
