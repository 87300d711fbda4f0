package conflict

import (
	"testing"

	"github.com/FACorreiaa/go-itinerary-health/internal/travel"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minutes(n int) *int { return &n }

func at(lat, lng float64) *types.Coordinate {
	return &types.Coordinate{Lat: lat, Lng: lng}
}

func newDetector() *Detector {
	return NewDetector(DefaultConfig(), travel.MustEstimator(travel.DefaultConfig()))
}

func TestDetector_Overlap(t *testing.T) {
	day := types.Day{Number: 1, Activities: []types.Activity{
		{ID: "temple", Title: "Temple", Time: "10:00", Duration: minutes(90)},
		{ID: "lunch", Title: "Lunch", Time: "11:00"},
	}}

	issues := newDetector().Detect(day)

	require.Len(t, issues, 1)
	is := issues[0]
	assert.Equal(t, types.KindOverlap, is.Kind)
	assert.Equal(t, types.SeverityCritical, is.Severity)
	assert.Equal(t, types.OverlapDetail{OverlapMinutes: 30}, is.Detail)
	assert.Equal(t, []int{0, 1}, is.Activities)
	assert.Equal(t, types.FixResolveOverlap, is.Fix)
}

func TestDetector_TightTransfer(t *testing.T) {
	day := types.Day{Number: 2, Activities: []types.Activity{
		{ID: "a", Time: "09:00", Duration: minutes(60)},
		{ID: "b", Time: "10:10", Duration: minutes(60)},
		{ID: "c", Time: "11:10", Duration: minutes(60)},
	}}

	issues := newDetector().Detect(day)

	require.Len(t, issues, 1, "back-to-back activities are not tight")
	assert.Equal(t, types.KindTightTransfer, issues[0].Kind)
	assert.Equal(t, types.SeverityWarning, issues[0].Severity)
	assert.Equal(t, types.TightTransferDetail{GapMinutes: 10}, issues[0].Detail)
	assert.Equal(t, []string{"a", "b"}, issues[0].ActivityIDs)
}

func TestDetector_UnreachableTransfer(t *testing.T) {
	day := types.Day{Number: 1, Activities: []types.Activity{
		{ID: "shinjuku", Time: "09:00", Duration: minutes(60), Coordinate: at(35.6896, 139.7006)},
		{ID: "yokohama", Time: "10:20", Duration: minutes(60), Coordinate: at(35.4437, 139.6380)},
	}}

	issues := newDetector().Detect(day)

	require.Len(t, issues, 1)
	assert.Equal(t, types.KindUnreachableTransfer, issues[0].Kind)
	detail, ok := issues[0].Detail.(types.UnreachableTransferDetail)
	require.True(t, ok)
	assert.Equal(t, 20, detail.GapMinutes)
	assert.Greater(t, detail.TravelMinutes, 20)

	t.Run("disabled without estimator", func(t *testing.T) {
		assert.Empty(t, NewDetector(DefaultConfig(), nil).Detect(day))
	})
}

func TestDetector_Backtracking(t *testing.T) {
	day := types.Day{Number: 3, Activities: []types.Activity{
		{ID: "a", Title: "A", Time: "09:00", Duration: minutes(60), Coordinate: at(35.00, 135.00)},
		{ID: "b", Title: "B", Time: "11:00", Duration: minutes(60), Coordinate: at(35.00, 135.05)},
		{ID: "c", Title: "C", Time: "13:00", Duration: minutes(60), Coordinate: at(35.00, 135.01)},
	}}

	issues := NewDetector(DefaultConfig(), nil).Detect(day)

	require.Len(t, issues, 1)
	assert.Equal(t, types.KindBacktracking, issues[0].Kind)
	assert.Equal(t, types.SeveritySuggestion, issues[0].Severity)
	assert.Equal(t, []int{0, 1, 2}, issues[0].Activities)
	assert.False(t, issues[0].Fixable())
}

func TestDetector_TooLong(t *testing.T) {
	day := types.Day{Number: 1, Activities: []types.Activity{
		{ID: "early", Time: "06:00", Duration: minutes(60)},
		{ID: "late", Time: "20:00", Duration: minutes(90)},
	}}

	issues := newDetector().Detect(day)

	require.Len(t, issues, 1)
	assert.Equal(t, types.KindOverloadedDay, issues[0].Kind)
	detail := issues[0].Detail.(types.OverloadedDayDetail)
	assert.Equal(t, types.OverloadTooLong, detail.Reason)
	assert.Equal(t, 15*60+30, detail.SpanMinutes)
}

func TestDetector_StableTies(t *testing.T) {
	day := types.Day{Number: 1, Activities: []types.Activity{
		{ID: "first", Time: "10:00", Duration: minutes(30)},
		{ID: "second", Time: "10:00", Duration: minutes(30)},
	}}

	for i := 0; i < 20; i++ {
		issues := newDetector().Detect(day)
		require.Len(t, issues, 1)
		assert.Equal(t, "overlap:d1:first:second", issues[0].ID)
	}
}

func TestDetector_EmptyAndUntimed(t *testing.T) {
	d := newDetector()
	assert.Empty(t, d.Detect(types.Day{Number: 1}))
	assert.Empty(t, d.Detect(types.Day{Number: 1, Activities: []types.Activity{{ID: "x"}, {ID: "y"}}}))
}
