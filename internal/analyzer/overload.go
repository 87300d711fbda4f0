package analyzer

import (
	"fmt"

	"github.com/FACorreiaa/go-itinerary-health/internal/geotime"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// DayLoad is the fatigue assessment of one day.
type DayLoad struct {
	Day           int                `json:"day"`
	Activities    int                `json:"activities"`
	SpanMinutes   int                `json:"span_minutes"`
	TightGaps     int                `json:"tight_gaps"`
	FatiguePoints int                `json:"fatigue_points"`
	Level         types.FatigueLevel `json:"level"`
}

type OverloadAnalyzer struct {
	cfg OverloadConfig
}

func NewOverloadAnalyzer(cfg OverloadConfig) *OverloadAnalyzer {
	return &OverloadAnalyzer{cfg: cfg}
}

// Assess scores a day in fatigue points: one per activity beyond the
// allowance, a flat penalty for very long spans, one per full hour beyond
// the base span and one per transition shorter than the minimum buffer.
func (o *OverloadAnalyzer) Assess(day types.Day) DayLoad {
	slots := geotime.Timeline(day)
	load := DayLoad{Day: day.Number, Activities: len(day.Activities), SpanMinutes: geotime.Span(slots)}

	if extra := load.Activities - o.cfg.ActivityAllowance; extra > 0 {
		load.FatiguePoints += extra
	}
	if load.SpanMinutes > o.cfg.LongSpanMinutes {
		load.FatiguePoints += o.cfg.LongSpanPoints
	}
	if load.SpanMinutes > o.cfg.BaseSpanMinutes {
		load.FatiguePoints += (load.SpanMinutes - o.cfg.BaseSpanMinutes) / 60
	}
	for i := 0; i+1 < len(slots); i++ {
		if slots[i].GapTo(slots[i+1].Interval) < o.cfg.MinBufferMinutes {
			load.TightGaps++
		}
	}
	load.FatiguePoints += load.TightGaps
	load.Level = o.level(load.FatiguePoints)
	return load
}

func (o *OverloadAnalyzer) level(points int) types.FatigueLevel {
	switch {
	case points >= o.cfg.ExtremePoints:
		return types.FatigueExtreme
	case points >= o.cfg.HighPoints:
		return types.FatigueHigh
	case points >= o.cfg.ModeratePoints:
		return types.FatigueModerate
	default:
		return types.FatigueNormal
	}
}

// Analyze assesses every day and reports the ones above normal load.
func (o *OverloadAnalyzer) Analyze(trip *types.Trip) ([]DayLoad, []types.Issue) {
	loads := make([]DayLoad, 0, len(trip.Days))
	var issues []types.Issue
	for _, d := range trip.Days {
		load := o.Assess(d)
		loads = append(loads, load)

		var sev types.Severity
		fix := types.FixBalanceDay
		switch load.Level {
		case types.FatigueExtreme:
			sev = types.SeverityCritical
		case types.FatigueHigh:
			sev = types.SeverityWarning
		case types.FatigueModerate:
			sev = types.SeveritySuggestion
			fix = types.FixNone
		default:
			continue
		}
		issue := types.NewIssue(
			fmt.Sprintf("fatigue:d%d", d.Number),
			sev, types.SourceOverload, d.Number,
			types.OverloadedDayDetail{
				Reason:        types.OverloadFatigue,
				SpanMinutes:   load.SpanMinutes,
				Activities:    load.Activities,
				FatiguePoints: load.FatiguePoints,
				Level:         load.Level,
			},
			fmt.Sprintf("Day %d carries a %s load (%d fatigue points)", d.Number, load.Level, load.FatiguePoints),
		)
		issue.Fix = fix
		issues = append(issues, issue)
	}
	return loads, issues
}
