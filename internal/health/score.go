package health

import (
	"math"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// Penalties are the points each issue removes from a perfect 100.
type Penalties struct {
	Critical   int
	Suggestion int
	// Warning is keyed by the analyzer that raised the issue; DefaultWarning
	// covers sources without an entry.
	Warning        map[types.Source]int
	DefaultWarning int
}

func DefaultPenalties() Penalties {
	return Penalties{
		Critical:   10,
		Suggestion: 1,
		Warning: map[types.Source]int{
			types.SourceConflict: 3,
			types.SourceCoverage: 3,
			types.SourceBudget:   5,
			types.SourceOverload: 5,
			types.SourceEnergy:   8,
		},
		DefaultWarning: 3,
	}
}

func (p Penalties) of(is types.Issue) int {
	switch is.Severity {
	case types.SeverityCritical:
		return p.Critical
	case types.SeverityWarning:
		if v, ok := p.Warning[is.Source]; ok {
			return v
		}
		return p.DefaultWarning
	default:
		return p.Suggestion
	}
}

// Score is the discrete health score: 100 minus the issue penalties,
// clamped to [0,100].
func Score(issues []types.Issue, p Penalties) int {
	score := 100
	for _, is := range issues {
		score -= p.of(is)
	}
	return max(0, min(100, score))
}

// Verdict buckets a score.
func Verdict(score int) types.Verdict {
	switch {
	case score >= 90:
		return types.VerdictExcellent
	case score >= 70:
		return types.VerdictGood
	case score >= 50:
		return types.VerdictNeedsAttention
	default:
		return types.VerdictCritical
	}
}

// QualityWeights weight the components of the continuous quality blend.
type QualityWeights struct {
	Feasibility float64
	Budget      float64
	Energy      float64
	Meals       float64
	Utilization float64
}

func DefaultQualityWeights() QualityWeights {
	return QualityWeights{Feasibility: 0.30, Budget: 0.20, Energy: 0.20, Meals: 0.15, Utilization: 0.15}
}

// QualityInputs are the acceptance ratios the blend is computed from. Each
// is in [0,1].
type QualityInputs struct {
	Feasibility float64
	Budget      float64
	Energy      float64
	Meals       float64
	Utilization float64
}

// Quality blends the inputs into a 0-100 value with one decimal. It moves
// smoothly where Score moves in steps.
func Quality(in QualityInputs, w QualityWeights) float64 {
	total := w.Feasibility + w.Budget + w.Energy + w.Meals + w.Utilization
	if total <= 0 {
		return 0
	}
	blend := (in.Feasibility*w.Feasibility +
		in.Budget*w.Budget +
		in.Energy*w.Energy +
		in.Meals*w.Meals +
		in.Utilization*w.Utilization) / total
	return math.Round(clamp01(blend)*1000) / 10
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func ratio(good, total int) float64 {
	if total <= 0 {
		return 1
	}
	return clamp01(float64(good) / float64(total))
}
