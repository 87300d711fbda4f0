package types

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minutes(m int) *int { return &m }

func amount(v float64) *float64 { return &v }

func TestTrip_Validate(t *testing.T) {
	tests := []struct {
		name    string
		days    []Day
		wantErr []string
	}{
		{
			name: "valid",
			days: []Day{
				{Number: 1, Base: &Coordinate{Lat: 35.68, Lng: 139.76}, Activities: []Activity{
					{ID: "a", Duration: minutes(0), Cost: amount(0), Coordinate: &Coordinate{Lat: -90, Lng: 180}},
				}},
				{Number: 2},
			},
		},
		{
			name:    "negative duration",
			days:    []Day{{Number: 1, Activities: []Activity{{ID: "a", Duration: minutes(-5)}}}},
			wantErr: []string{"negative duration -5"},
		},
		{
			name:    "negative cost",
			days:    []Day{{Number: 1, Activities: []Activity{{ID: "a", Cost: amount(-1)}}}},
			wantErr: []string{"negative cost"},
		},
		{
			name:    "activity coordinate out of range",
			days:    []Day{{Number: 1, Activities: []Activity{{ID: "a", Coordinate: &Coordinate{Lat: 91, Lng: 0}}}}},
			wantErr: []string{"activity 0: coordinate out of range"},
		},
		{
			name:    "base coordinate out of range",
			days:    []Day{{Number: 1, Base: &Coordinate{Lat: 0, Lng: -181}}},
			wantErr: []string{"day 1: base coordinate out of range"},
		},
		{
			name:    "days not starting at one",
			days:    []Day{{Number: 2}},
			wantErr: []string{"has number 2, want 1"},
		},
		{
			name: "every violation reported together",
			days: []Day{
				{Number: 1},
				{Number: 3, Activities: []Activity{{ID: "a", Duration: minutes(-1), Cost: amount(-2)}}},
			},
			wantErr: []string{"has number 3, want 2", "negative duration -1", "negative cost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := &Trip{ID: uuid.New(), Days: tt.days}
			err := trip.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTrip))
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestTrip_ValidateEmpty(t *testing.T) {
	assert.NoError(t, (&Trip{}).Validate())
}

func TestTrip_Clone(t *testing.T) {
	orig := &Trip{
		ID:          uuid.New(),
		Name:        "Kansai",
		Budget:      amount(100000),
		DailyBudget: amount(20000),
		Days: []Day{{
			Number: 1,
			Cities: []string{"Kyoto"},
			Budget: amount(15000),
			Base:   &Coordinate{Lat: 35.01, Lng: 135.77},
			Activities: []Activity{{
				ID:         "kinkakuji",
				Title:      "Kinkaku-ji",
				Duration:   minutes(90),
				Coordinate: &Coordinate{Lat: 35.04, Lng: 135.73},
				Cost:       amount(500),
			}},
		}},
	}

	c := orig.Clone()
	require.Equal(t, orig, c)

	*c.Budget = 1
	*c.DailyBudget = 1
	c.Days[0].Cities[0] = "Osaka"
	*c.Days[0].Budget = 1
	c.Days[0].Base.Lat = 0
	a := &c.Days[0].Activities[0]
	a.Title = "Changed"
	*a.Duration = 1
	a.Coordinate.Lng = 0
	*a.Cost = 1
	c.Days[0].Activities = append(c.Days[0].Activities, Activity{ID: "extra"})

	assert.InDelta(t, 100000, *orig.Budget, 1e-9)
	assert.InDelta(t, 20000, *orig.DailyBudget, 1e-9)
	d := orig.Days[0]
	assert.Equal(t, "Kyoto", d.Cities[0])
	assert.InDelta(t, 15000, *d.Budget, 1e-9)
	assert.InDelta(t, 35.01, d.Base.Lat, 1e-9)
	require.Len(t, d.Activities, 1)
	assert.Equal(t, "Kinkaku-ji", d.Activities[0].Title)
	assert.Equal(t, 90, *d.Activities[0].Duration)
	assert.InDelta(t, 135.73, d.Activities[0].Coordinate.Lng, 1e-9)
	assert.InDelta(t, 500, *d.Activities[0].Cost, 1e-9)
}

func TestTrip_DayBudget(t *testing.T) {
	trip := &Trip{DailyBudget: amount(10000)}
	assert.InDelta(t, 10000, trip.DayBudget(Day{}), 1e-9)
	assert.InDelta(t, 5000, trip.DayBudget(Day{Budget: amount(5000)}), 1e-9)
	assert.Zero(t, (&Trip{}).DayBudget(Day{}))
}
