package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FACorreiaa/go-itinerary-health/internal/geotime"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// CoverageAnalyzer looks for holes in the schedule: empty days, long idle
// gaps, missing meals, missing data and odd hours.
type CoverageAnalyzer struct {
	cfg CoverageConfig
}

func NewCoverageAnalyzer(cfg CoverageConfig) *CoverageAnalyzer {
	return &CoverageAnalyzer{cfg: cfg}
}

func (c *CoverageAnalyzer) Config() CoverageConfig {
	return c.cfg
}

// HasMeal reports whether the day already covers meal, either by a food
// activity inside the meal's window or by a title keyword.
func (c *CoverageAnalyzer) HasMeal(day types.Day, meal types.MealType) bool {
	w, ok := c.cfg.Meals[meal]
	if !ok {
		return true
	}
	for _, a := range day.Activities {
		title := strings.ToLower(a.Title)
		for _, kw := range w.Keywords {
			if strings.Contains(title, kw) {
				return true
			}
		}
		if a.IsMeal() && a.HasStart() && w.Detect.Contains(geotime.ParseTime(a.Time)) && !mentionsOtherMeal(c.cfg, meal, title) {
			return true
		}
	}
	return false
}

func mentionsOtherMeal(cfg CoverageConfig, meal types.MealType, title string) bool {
	for other, w := range cfg.Meals {
		if other == meal {
			continue
		}
		for _, kw := range w.Keywords {
			if strings.Contains(title, kw) {
				return true
			}
		}
	}
	return false
}

// Gap is idle time between two consecutive timed activities.
type Gap struct {
	Before  geotime.Slot
	After   geotime.Slot
	Minutes int
}

// LongGaps lists gaps longer than the configured threshold.
func (c *CoverageAnalyzer) LongGaps(day types.Day) []Gap {
	slots := geotime.Timeline(day)
	var gaps []Gap
	for i := 0; i+1 < len(slots); i++ {
		g := slots[i].GapTo(slots[i+1].Interval)
		if g > c.cfg.LongGapMinutes {
			gaps = append(gaps, Gap{Before: slots[i], After: slots[i+1], Minutes: g})
		}
	}
	return gaps
}

func (c *CoverageAnalyzer) Analyze(trip *types.Trip) []types.Issue {
	var issues []types.Issue
	for _, d := range trip.Days {
		issues = append(issues, c.analyzeDay(d)...)
	}
	return issues
}

func (c *CoverageAnalyzer) analyzeDay(d types.Day) []types.Issue {
	if len(d.Activities) == 0 {
		issue := types.NewIssue(
			fmt.Sprintf("empty:d%d", d.Number),
			types.SeveritySuggestion, types.SourceCoverage, d.Number,
			types.EmptyDayDetail{},
			fmt.Sprintf("Day %d has nothing planned", d.Number),
		)
		issue.Fix = types.FixFillDay
		return []types.Issue{issue}
	}

	var issues []types.Issue
	for _, g := range c.LongGaps(d) {
		issue := types.NewIssue(
			fmt.Sprintf("gap:d%d:%s:%s", d.Number, g.Before.Key(), g.After.Key()),
			types.SeveritySuggestion, types.SourceCoverage, d.Number,
			types.LongGapDetail{GapMinutes: g.Minutes, From: geotime.FormatTime(g.Before.End), To: geotime.FormatTime(g.After.Start)},
			fmt.Sprintf("%dh%02d free between %q and %q", g.Minutes/60, g.Minutes%60, g.Before.Activity.Title, g.After.Activity.Title),
		)
		issue.Activities = []int{g.Before.Index, g.After.Index}
		issue.ActivityIDs = []string{g.Before.Activity.ID, g.After.Activity.ID}
		issue.Fix = types.FixFillGap
		issues = append(issues, issue)
	}

	for _, meal := range types.Meals {
		if c.HasMeal(d, meal) {
			continue
		}
		issue := types.NewIssue(
			fmt.Sprintf("meal:d%d:%s", d.Number, meal),
			types.SeveritySuggestion, types.SourceCoverage, d.Number,
			types.MissingMealDetail{Meal: meal},
			fmt.Sprintf("No %s planned on day %d", meal, d.Number),
		)
		issue.Fix = types.FixInsertMeal
		issues = append(issues, issue)
	}

	counts := make(map[types.Category]int)
	for i, a := range d.Activities {
		counts[a.Category]++
		key := a.ID
		if key == "" {
			key = fmt.Sprintf("#%d", i)
		}
		if a.Coordinate == nil && a.Category != types.CategoryTransport {
			issue := types.NewIssue(
				fmt.Sprintf("coords:d%d:%s", d.Number, key),
				types.SeveritySuggestion, types.SourceCoverage, d.Number,
				types.MissingCoordinatesDetail{},
				fmt.Sprintf("%q has no coordinates; travel times cannot be checked", a.Title),
			)
			issue.Activities = []int{i}
			issue.ActivityIDs = []string{a.ID}
			issues = append(issues, issue)
		}
		if is, ok := c.unusualHour(d.Number, i, key, a); ok {
			issues = append(issues, is)
		}
	}

	if len(d.Activities) >= c.cfg.VarietyMinActivities {
		cats := make([]types.Category, 0, len(counts))
		for cat := range counts {
			cats = append(cats, cat)
		}
		sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
		for _, cat := range cats {
			share := float64(counts[cat]) / float64(len(d.Activities))
			if share <= c.cfg.VarietyMaxShare {
				continue
			}
			issues = append(issues, types.NewIssue(
				fmt.Sprintf("variety:d%d", d.Number),
				types.SeveritySuggestion, types.SourceCoverage, d.Number,
				types.LowVarietyDetail{Category: cat, Count: counts[cat], Share: share},
				fmt.Sprintf("%d of %d activities on day %d are %s", counts[cat], len(d.Activities), d.Number, cat),
			))
		}
	}
	return issues
}

func (c *CoverageAnalyzer) unusualHour(dayNum, idx int, key string, a types.Activity) (types.Issue, bool) {
	if !a.HasStart() || a.Category == types.CategoryTransport || a.Category == types.CategoryHotel {
		return types.Issue{}, false
	}
	start := geotime.ParseTime(a.Time)
	title := strings.ToLower(a.Title)
	var reason string
	switch {
	case start < c.cfg.EarliestStart && !containsAny(title, c.cfg.EarlyExemptKeywords):
		reason = "very early"
	case start >= c.cfg.LatestStart && a.Category != types.CategoryNightlife:
		reason = "very late"
	default:
		return types.Issue{}, false
	}
	issue := types.NewIssue(
		fmt.Sprintf("hour:d%d:%s", dayNum, key),
		types.SeveritySuggestion, types.SourceCoverage, dayNum,
		types.UnusualHourDetail{Time: geotime.FormatTime(start)},
		fmt.Sprintf("%q starts %s at %s", a.Title, reason, geotime.FormatTime(start)),
	)
	issue.Activities = []int{idx}
	issue.ActivityIDs = []string{a.ID}
	return issue, true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
