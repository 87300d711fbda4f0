// Package repair implements the quick fixes: named repair operations that
// take a detected issue and rewrite the trip to resolve it.
//
// Every operation builds the new state on a copy and swaps it in only when
// it succeeds, so a failed fix never leaves the trip half edited. Running a
// fix again after it succeeded reports "nothing to resolve" and changes
// nothing.
package repair

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-itinerary-health/internal/analyzer"
	"github.com/FACorreiaa/go-itinerary-health/internal/travel"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// ErrNothingToResolve is reported when the issue no longer holds.
var ErrNothingToResolve = errors.New("nothing to resolve")

// PlacesFinder looks up candidate venues near a point. Results are expected
// to be ranked by rating; the engine re-ranks them anyway.
type PlacesFinder interface {
	SearchNear(ctx context.Context, q types.PlaceQuery) ([]types.Candidate, error)
}

type PriorityWeights struct {
	Meal       int
	MustSee    int
	HighCost   int
	HighRating int
}

type Config struct {
	MinBufferMinutes  int
	MaxActivities     int
	HighCostThreshold float64
	HighRating        float64
	// CheaperRatio is the most a substitute may cost relative to the original.
	CheaperRatio     float64
	ShortGapMinutes  int
	ShortFillMinutes int
	LongFillMinutes  int
	FillDayStops     int
	FillDayStart     int
	SearchRadius     float64
	MaxCandidates    int
	Priority         PriorityWeights
}

func DefaultConfig() Config {
	return Config{
		MinBufferMinutes:  15,
		MaxActivities:     6,
		HighCostThreshold: 5000,
		HighRating:        4.5,
		CheaperRatio:      0.7,
		ShortGapMinutes:   240,
		ShortFillMinutes:  60,
		LongFillMinutes:   120,
		FillDayStops:      4,
		FillDayStart:      9 * 60,
		SearchRadius:      1500,
		MaxCandidates:     10,
		Priority:          PriorityWeights{Meal: 10, MustSee: 8, HighCost: 3, HighRating: 2},
	}
}

// Actions lists every fix action the engine can dispatch.
var Actions = []types.FixAction{
	types.FixResolveOverlap,
	types.FixBalanceDay,
	types.FixFillDay,
	types.FixFillGap,
	types.FixInsertMeal,
	types.FixReduceBudget,
}

type Engine struct {
	cfg       Config
	estimator *travel.Estimator
	coverage  *analyzer.CoverageAnalyzer
	places    PlacesFinder
	logger    *slog.Logger
}

// NewEngine builds an engine. places may be nil, in which case fixes that
// need venue suggestions fail with a reason.
func NewEngine(cfg Config, estimator *travel.Estimator, coverage *analyzer.CoverageAnalyzer, places PlacesFinder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:       cfg,
		estimator: estimator,
		coverage:  coverage,
		places:    places,
		logger:    logger,
	}
}

// dayFix rewrites a copy of one day.
type dayFix func(ctx context.Context, trip *types.Trip, day *types.Day, issue types.Issue) (string, error)

// Apply runs the quick fix named by the issue. The trip is modified only
// when the returned outcome is Applied. Callers must not run two fixes on
// the same trip concurrently.
func (e *Engine) Apply(ctx context.Context, trip *types.Trip, issue types.Issue) types.FixOutcome {
	out := types.FixOutcome{IssueID: issue.ID, Kind: issue.Kind, Action: issue.Fix}

	var (
		summary string
		err     error
	)
	switch issue.Fix {
	case types.FixResolveOverlap:
		summary, err = e.onDay(ctx, trip, issue, e.resolveOverlap)
	case types.FixBalanceDay:
		summary, err = e.onDay(ctx, trip, issue, e.balanceDay)
	case types.FixFillDay:
		summary, err = e.onDay(ctx, trip, issue, e.fillDay)
	case types.FixFillGap:
		summary, err = e.onDay(ctx, trip, issue, e.fillGap)
	case types.FixInsertMeal:
		summary, err = e.onDay(ctx, trip, issue, e.insertMeal)
	case types.FixReduceBudget:
		summary, err = e.reduceBudget(ctx, trip, issue)
	case types.FixNone:
		err = fmt.Errorf("no quick fix for %s issues", issue.Kind)
	default:
		err = fmt.Errorf("unknown fix action %q", issue.Fix)
	}

	if err != nil {
		out.Reason = err.Error()
		e.logger.DebugContext(ctx, "Quick fix not applied",
			slog.String("issue", issue.ID), slog.String("action", string(issue.Fix)), slog.Any("error", err))
		return out
	}
	out.Applied = true
	out.Summary = summary
	e.logger.InfoContext(ctx, "Quick fix applied",
		slog.String("issue", issue.ID), slog.String("action", string(issue.Fix)), slog.String("summary", summary))
	return out
}

// onDay runs fix against a copy of the issue's day and commits it on success.
func (e *Engine) onDay(ctx context.Context, trip *types.Trip, issue types.Issue, fix dayFix) (string, error) {
	idx := dayIndex(trip, issue.Day)
	if idx < 0 {
		return "", fmt.Errorf("day %d not found", issue.Day)
	}
	day := trip.Days[idx].Clone()
	summary, err := fix(ctx, trip, &day, issue)
	if err != nil {
		return "", err
	}
	trip.Days[idx] = day
	return summary, nil
}

func dayIndex(trip *types.Trip, number int) int {
	for i, d := range trip.Days {
		if d.Number == number {
			return i
		}
	}
	return -1
}

// buffer is the time kept free after from before to starts: the minimum
// buffer, or the estimated travel time when that is longer.
func (e *Engine) buffer(from, to types.Activity) int {
	b := e.cfg.MinBufferMinutes
	if e.estimator == nil {
		return b
	}
	if est, ok := e.estimator.Activities(from, to); ok && est.Minutes > b {
		return est.Minutes
	}
	return b
}
