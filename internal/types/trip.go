package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultActivityMinutes is the duration assumed for activities without one.
const DefaultActivityMinutes = 90

type Category string

const (
	CategoryTransport     Category = "transport"
	CategorySightseeing   Category = "sightseeing"
	CategoryFood          Category = "food"
	CategoryShopping      Category = "shopping"
	CategoryCulture       Category = "culture"
	CategoryNature        Category = "nature"
	CategoryHotel         Category = "hotel"
	CategoryEntertainment Category = "entertainment"
	CategoryNightlife     Category = "nightlife"
	CategoryOther         Category = "other"
)

var knownCategories = map[Category]struct{}{
	CategoryTransport: {}, CategorySightseeing: {}, CategoryFood: {}, CategoryShopping: {},
	CategoryCulture: {}, CategoryNature: {}, CategoryHotel: {}, CategoryEntertainment: {},
	CategoryNightlife: {}, CategoryOther: {},
}

// NormalizeCategory maps free-form category strings onto the known set.
// Unknown values become CategoryOther.
func NormalizeCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := knownCategories[c]; ok {
		return c
	}
	return CategoryOther
}

func (c *Category) UnmarshalText(b []byte) error {
	*c = NormalizeCategory(string(b))
	return nil
}

// Pace is the intensity a traveller plans for a day.
type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PaceIntense  Pace = "intense"
	PaceExtreme  Pace = "extreme"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Activity struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Category    Category    `json:"category"`
	Time        string      `json:"time,omitempty"`
	Duration    *int        `json:"duration,omitempty"`
	Coordinate  *Coordinate `json:"coordinates,omitempty"`
	Cost        *float64    `json:"cost,omitempty"`
	Location    string      `json:"location,omitempty"`
	Meal        bool        `json:"meal,omitempty"`
	MustSee     bool        `json:"must_see,omitempty"`
	Rating      float64     `json:"rating,omitempty"`
	SwappedFrom string      `json:"swapped_from,omitempty"`
}

// HasStart reports whether the activity is pinned to a time of day.
func (a Activity) HasStart() bool {
	return strings.TrimSpace(a.Time) != ""
}

// DurationMinutes returns the planned duration, defaulting to DefaultActivityMinutes.
func (a Activity) DurationMinutes() int {
	if a.Duration == nil {
		return DefaultActivityMinutes
	}
	return *a.Duration
}

func (a Activity) CostValue() float64 {
	if a.Cost == nil {
		return 0
	}
	return *a.Cost
}

func (a Activity) IsMeal() bool {
	return a.Meal || a.Category == CategoryFood
}

type Day struct {
	Number     int         `json:"day"`
	Date       time.Time   `json:"date,omitempty"`
	Cities     []string    `json:"cities,omitempty"`
	Activities []Activity  `json:"activities"`
	Budget     *float64    `json:"budget,omitempty"`
	Pace       Pace        `json:"pace,omitempty"`
	RestDay    bool        `json:"rest_day,omitempty"`
	Base       *Coordinate `json:"base,omitempty"`
}

// PaceOrDefault returns the day's pace, moderate when unset.
func (d Day) PaceOrDefault() Pace {
	if d.Pace == "" {
		return PaceModerate
	}
	return d.Pace
}

func (d Day) City() string {
	if len(d.Cities) == 0 {
		return ""
	}
	return d.Cities[0]
}

type Trip struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date,omitempty"`
	EndDate     time.Time `json:"end_date,omitempty"`
	Budget      *float64  `json:"budget,omitempty"`
	DailyBudget *float64  `json:"daily_budget,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Days        []Day     `json:"days"`
}

// DayBudget returns the budget that applies to day, falling back to the trip's
// daily budget. Zero means no budget.
func (t *Trip) DayBudget(d Day) float64 {
	if d.Budget != nil {
		return *d.Budget
	}
	if t.DailyBudget != nil {
		return *t.DailyBudget
	}
	return 0
}

// Validate checks the structural invariants analysis relies on. All
// violations are reported together and wrap ErrInvalidTrip.
func (t *Trip) Validate() error {
	var errs []error
	for i, d := range t.Days {
		if d.Number != i+1 {
			errs = append(errs, fmt.Errorf("day at position %d has number %d, want %d", i, d.Number, i+1))
		}
		if d.Base != nil && !d.Base.Valid() {
			errs = append(errs, fmt.Errorf("day %d: base coordinate out of range", d.Number))
		}
		for j, a := range d.Activities {
			if a.Duration != nil && *a.Duration < 0 {
				errs = append(errs, fmt.Errorf("day %d activity %d: negative duration %d", d.Number, j, *a.Duration))
			}
			if a.Cost != nil && *a.Cost < 0 {
				errs = append(errs, fmt.Errorf("day %d activity %d: negative cost", d.Number, j))
			}
			if a.Coordinate != nil && !a.Coordinate.Valid() {
				errs = append(errs, fmt.Errorf("day %d activity %d: coordinate out of range", d.Number, j))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidTrip, errors.Join(errs...))
}

// Clone returns a deep copy so repairs can build new state without touching
// the original until they succeed.
func (t *Trip) Clone() *Trip {
	c := *t
	c.Budget = cloneFloat(t.Budget)
	c.DailyBudget = cloneFloat(t.DailyBudget)
	c.Days = make([]Day, len(t.Days))
	for i, d := range t.Days {
		c.Days[i] = d.Clone()
	}
	return &c
}

func (d Day) Clone() Day {
	c := d
	c.Cities = append([]string(nil), d.Cities...)
	c.Budget = cloneFloat(d.Budget)
	if d.Base != nil {
		b := *d.Base
		c.Base = &b
	}
	c.Activities = make([]Activity, len(d.Activities))
	for i, a := range d.Activities {
		c.Activities[i] = a.Clone()
	}
	return c
}

func (a Activity) Clone() Activity {
	c := a
	if a.Duration != nil {
		v := *a.Duration
		c.Duration = &v
	}
	if a.Coordinate != nil {
		v := *a.Coordinate
		c.Coordinate = &v
	}
	c.Cost = cloneFloat(a.Cost)
	return c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
