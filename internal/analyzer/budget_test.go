package analyzer

import (
	"testing"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yen(v float64) *float64 { return &v }

func costly(id string, cost float64) types.Activity {
	return types.Activity{ID: id, Title: id, Category: types.CategorySightseeing, Cost: yen(cost)}
}

func TestBudgetAnalyzer_DayOverrun(t *testing.T) {
	trip := &types.Trip{
		DailyBudget: yen(10000),
		Days: []types.Day{
			{Number: 1, Activities: []types.Activity{costly("kaiseki", 15000)}},
		},
	}

	report, issues := NewBudgetAnalyzer(DefaultConfig().Budget).Analyze(trip)

	require.Len(t, issues, 1)
	is := issues[0]
	assert.Equal(t, types.KindBudgetExceeded, is.Kind)
	assert.Equal(t, types.SeverityCritical, is.Severity)
	assert.Equal(t, types.FixReduceBudget, is.Fix)
	detail := is.Detail.(types.BudgetExceededDetail)
	assert.Equal(t, types.BudgetScopeDay, detail.Scope)
	assert.Equal(t, 5000.0, detail.Overage)
	assert.Contains(t, is.Description, "5000 over")
	assert.Equal(t, 15000.0, report.TotalSpent)
	assert.Equal(t, "JPY", report.Currency)
}

func TestBudgetAnalyzer_DayBudgetOverridesDaily(t *testing.T) {
	trip := &types.Trip{
		DailyBudget: yen(10000),
		Days: []types.Day{
			{Number: 1, Budget: yen(20000), Activities: []types.Activity{costly("a", 15000)}},
		},
	}
	_, issues := NewBudgetAnalyzer(DefaultConfig().Budget).Analyze(trip)
	assert.Empty(t, issues)
}

func TestBudgetAnalyzer_TripBudget(t *testing.T) {
	a := NewBudgetAnalyzer(DefaultConfig().Budget)

	t.Run("exceeded", func(t *testing.T) {
		trip := &types.Trip{Budget: yen(20000), Days: []types.Day{
			{Number: 1, Activities: []types.Activity{costly("a", 12000)}},
			{Number: 2, Activities: []types.Activity{costly("b", 12000)}},
		}}
		report, issues := a.Analyze(trip)
		require.Len(t, issues, 1)
		detail := issues[0].Detail.(types.BudgetExceededDetail)
		assert.Equal(t, types.BudgetScopeTrip, detail.Scope)
		assert.Equal(t, 4000.0, detail.Overage)
		assert.Equal(t, 20000.0, report.TotalBudget)
	})

	t.Run("tight", func(t *testing.T) {
		trip := &types.Trip{Budget: yen(20000), Days: []types.Day{
			{Number: 1, Activities: []types.Activity{costly("a", 9700)}},
			{Number: 2, Activities: []types.Activity{costly("b", 9700)}},
		}}
		_, issues := a.Analyze(trip)
		require.Len(t, issues, 1)
		assert.Equal(t, types.KindBudgetTight, issues[0].Kind)
		assert.Equal(t, types.SeverityWarning, issues[0].Severity)
	})
}

func TestBudgetAnalyzer_DeviationAndExtremes(t *testing.T) {
	trip := &types.Trip{Days: []types.Day{
		{Number: 1, Activities: []types.Activity{costly("a", 1000)}},
		{Number: 2, Activities: []types.Activity{costly("b", 5000)}},
		{Number: 3},
	}}

	report, issues := NewBudgetAnalyzer(DefaultConfig().Budget).Analyze(trip)

	require.NotNil(t, report.MostExpensive)
	require.NotNil(t, report.LeastExpensive)
	assert.Equal(t, 2, report.MostExpensive.Day)
	assert.Equal(t, 1, report.LeastExpensive.Day, "days without spend are ignored")
	assert.Equal(t, 2000.0, report.MeanPerDay)

	for _, is := range issues {
		assert.Equal(t, types.KindBudgetDeviation, is.Kind)
		assert.Equal(t, types.SeveritySuggestion, is.Severity)
	}
	assert.Len(t, issues, 3)
}

func TestBudgetAnalyzer_EmptyTrip(t *testing.T) {
	report, issues := NewBudgetAnalyzer(DefaultConfig().Budget).Analyze(&types.Trip{})
	assert.Empty(t, issues)
	assert.Nil(t, report.MostExpensive)
	assert.Nil(t, report.LeastExpensive)
}
