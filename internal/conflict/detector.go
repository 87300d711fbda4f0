package conflict

import (
	"fmt"

	"github.com/FACorreiaa/go-itinerary-health/internal/geotime"
	"github.com/FACorreiaa/go-itinerary-health/internal/travel"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

type Config struct {
	// MinBufferMinutes is the smallest comfortable gap between two activities.
	MinBufferMinutes int
	// BacktrackRatio flags A->B->C when A->C is shorter than this share of the detour.
	BacktrackRatio float64
	// MaxSpanMinutes is the longest first-start to last-end span before a day is too long.
	MaxSpanMinutes int
}

func DefaultConfig() Config {
	return Config{
		MinBufferMinutes: 15,
		BacktrackRatio:   0.7,
		MaxSpanMinutes:   14 * 60,
	}
}

// Detector finds scheduling conflicts within a single day. It holds no
// mutable state and is safe for concurrent use.
type Detector struct {
	cfg       Config
	estimator *travel.Estimator
}

// NewDetector builds a detector. estimator may be nil, which disables the
// reachability check between coordinates.
func NewDetector(cfg Config, estimator *travel.Estimator) *Detector {
	return &Detector{cfg: cfg, estimator: estimator}
}

func (d *Detector) Config() Config {
	return d.cfg
}

// Detect returns the conflicts of one day in timeline order.
func (d *Detector) Detect(day types.Day) []types.Issue {
	slots := geotime.Timeline(day)
	if len(slots) == 0 {
		return nil
	}

	var issues []types.Issue
	for i := 0; i+1 < len(slots); i++ {
		if issue, ok := d.checkTransition(day.Number, slots[i], slots[i+1]); ok {
			issues = append(issues, issue)
		}
	}
	for i := 0; i+2 < len(slots); i++ {
		if issue, ok := d.checkBacktracking(day.Number, slots[i], slots[i+1], slots[i+2]); ok {
			issues = append(issues, issue)
		}
	}
	if span := geotime.Span(slots); span > d.cfg.MaxSpanMinutes {
		issue := types.NewIssue(
			fmt.Sprintf("too_long:d%d", day.Number),
			types.SeverityWarning, types.SourceConflict, day.Number,
			types.OverloadedDayDetail{Reason: types.OverloadTooLong, SpanMinutes: span, Activities: len(slots)},
			fmt.Sprintf("Day %d spans %dh%02d from first start to last finish", day.Number, span/60, span%60),
		)
		issue.Fix = types.FixBalanceDay
		issues = append(issues, issue)
	}
	return issues
}

func (d *Detector) checkTransition(dayNum int, cur, next geotime.Slot) (types.Issue, bool) {
	gap := cur.GapTo(next.Interval)
	pair := []int{cur.Index, next.Index}
	ids := []string{cur.Activity.ID, next.Activity.ID}

	var issue types.Issue
	switch {
	case gap < 0:
		issue = types.NewIssue(
			fmt.Sprintf("overlap:d%d:%s:%s", dayNum, cur.Key(), next.Key()),
			types.SeverityCritical, types.SourceConflict, dayNum,
			types.OverlapDetail{OverlapMinutes: -gap},
			fmt.Sprintf("%q overlaps %q by %d minutes", cur.Activity.Title, next.Activity.Title, -gap),
		)
	case gap > 0 && gap < d.cfg.MinBufferMinutes:
		issue = types.NewIssue(
			fmt.Sprintf("tight:d%d:%s:%s", dayNum, cur.Key(), next.Key()),
			types.SeverityWarning, types.SourceConflict, dayNum,
			types.TightTransferDetail{GapMinutes: gap},
			fmt.Sprintf("Only %d minutes between %q and %q", gap, cur.Activity.Title, next.Activity.Title),
		)
	case gap >= d.cfg.MinBufferMinutes && d.estimator != nil:
		est, ok := d.estimator.Activities(cur.Activity, next.Activity)
		if !ok || est.Minutes <= gap {
			return types.Issue{}, false
		}
		issue = types.NewIssue(
			fmt.Sprintf("unreachable:d%d:%s:%s", dayNum, cur.Key(), next.Key()),
			types.SeverityWarning, types.SourceConflict, dayNum,
			types.UnreachableTransferDetail{GapMinutes: gap, TravelMinutes: est.Minutes, DistanceKm: est.DistanceKm, Mode: est.Mode},
			fmt.Sprintf("Getting from %q to %q takes about %d minutes by %s but only %d are planned",
				cur.Activity.Title, next.Activity.Title, est.Minutes, est.Mode, gap),
		)
	default:
		return types.Issue{}, false
	}
	issue.Activities = pair
	issue.ActivityIDs = ids
	issue.Fix = types.FixResolveOverlap
	return issue, true
}

func (d *Detector) checkBacktracking(dayNum int, a, b, c geotime.Slot) (types.Issue, bool) {
	if a.Activity.Coordinate == nil || b.Activity.Coordinate == nil || c.Activity.Coordinate == nil {
		return types.Issue{}, false
	}
	ab := geotime.DistanceKm(*a.Activity.Coordinate, *b.Activity.Coordinate)
	bc := geotime.DistanceKm(*b.Activity.Coordinate, *c.Activity.Coordinate)
	ac := geotime.DistanceKm(*a.Activity.Coordinate, *c.Activity.Coordinate)
	if ac >= d.cfg.BacktrackRatio*(ab+bc) {
		return types.Issue{}, false
	}
	issue := types.NewIssue(
		fmt.Sprintf("backtrack:d%d:%s", dayNum, b.Key()),
		types.SeveritySuggestion, types.SourceConflict, dayNum,
		types.BacktrackingDetail{DirectKm: ac, TwoHopKm: ab + bc},
		fmt.Sprintf("Route doubles back through %q; visiting %q before it saves %.1f km",
			b.Activity.Title, c.Activity.Title, ab+bc-ac),
	)
	issue.Activities = []int{a.Index, b.Index, c.Index}
	issue.ActivityIDs = []string{a.Activity.ID, b.Activity.ID, c.Activity.ID}
	return issue, true
}
