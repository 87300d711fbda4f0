package repair

import (
	"context"
	"log/slog"
	"sort"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// Inspector re-derives the issues of a trip from its current state.
type Inspector interface {
	Issues(trip *types.Trip) []types.Issue
}

// FixAll repeatedly asks the inspector for the current issues and applies the
// most severe fixable one that has not been attempted yet. The issue list is
// rebuilt after every fix because a fix can resolve or introduce others.
// At most maxPasses fixes are attempted.
func (e *Engine) FixAll(ctx context.Context, trip *types.Trip, inspector Inspector, maxPasses int) []types.FixOutcome {
	attempted := make(map[string]bool)
	var outcomes []types.FixOutcome

	for pass := 0; pass < maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			e.logger.WarnContext(ctx, "Fix-all interrupted", slog.Int("pass", pass), slog.Any("error", err))
			break
		}
		next, ok := nextFixable(inspector.Issues(trip), attempted)
		if !ok {
			break
		}
		attempted[next.ID] = true
		outcomes = append(outcomes, e.Apply(ctx, trip, next))
	}
	return outcomes
}

func nextFixable(issues []types.Issue, attempted map[string]bool) (types.Issue, bool) {
	candidates := make([]types.Issue, 0, len(issues))
	for _, is := range issues {
		if is.Fixable() && !attempted[is.ID] {
			candidates = append(candidates, is)
		}
	}
	if len(candidates) == 0 {
		return types.Issue{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Severity > candidates[j].Severity
	})
	return candidates[0], true
}
