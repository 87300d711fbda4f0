package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Severity int

const (
	SeveritySuggestion Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "suggestion"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "critical", "high":
		*s = SeverityCritical
	case "warning", "medium":
		*s = SeverityWarning
	case "suggestion", "low", "info":
		*s = SeveritySuggestion
	default:
		return fmt.Errorf("unknown severity %q", string(b))
	}
	return nil
}

type Kind string

const (
	KindOverlap             Kind = "overlap"
	KindTightTransfer       Kind = "tight_transfer"
	KindUnreachableTransfer Kind = "unreachable_transfer"
	KindBacktracking        Kind = "backtracking"
	KindOverloadedDay       Kind = "overloaded_day"
	KindBudgetExceeded      Kind = "budget_exceeded"
	KindBudgetTight         Kind = "budget_tight"
	KindBudgetDeviation     Kind = "budget_deviation"
	KindEmptyDay            Kind = "empty_day"
	KindMissingMeal         Kind = "missing_meal"
	KindLongGap             Kind = "long_gap"
	KindLowEnergyDay        Kind = "low_energy_day"
	KindLowEnergyPeriod     Kind = "low_energy_period"
	KindMissingCoordinates  Kind = "missing_coordinates"
	KindLowVariety          Kind = "low_variety"
	KindUnusualHour         Kind = "unusual_hour"
)

// Kinds lists every issue kind in a stable order.
var Kinds = []Kind{
	KindOverlap, KindTightTransfer, KindUnreachableTransfer, KindBacktracking,
	KindOverloadedDay, KindBudgetExceeded, KindBudgetTight, KindBudgetDeviation,
	KindEmptyDay, KindMissingMeal, KindLongGap, KindLowEnergyDay, KindLowEnergyPeriod,
	KindMissingCoordinates, KindLowVariety, KindUnusualHour,
}

// Source names the analyzer that produced an issue.
type Source string

const (
	SourceConflict Source = "conflict"
	SourceBudget   Source = "budget"
	SourceOverload Source = "overload"
	SourceEnergy   Source = "energy"
	SourceCoverage Source = "coverage"
)

type FixAction string

const (
	FixNone           FixAction = ""
	FixResolveOverlap FixAction = "resolve_overlap"
	FixBalanceDay     FixAction = "balance_day"
	FixFillDay        FixAction = "fill_day"
	FixFillGap        FixAction = "fill_gap"
	FixInsertMeal     FixAction = "insert_meal"
	FixReduceBudget   FixAction = "reduce_budget"
)

// Issue is a single detected defect. Detail carries the fields specific to
// Kind; Kind always equals Detail.Kind().
type Issue struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Severity    Severity  `json:"severity"`
	Source      Source    `json:"source"`
	Description string    `json:"description"`
	Day         int       `json:"day,omitempty"`
	Activities  []int     `json:"activities,omitempty"`
	ActivityIDs []string  `json:"activity_ids,omitempty"`
	Fix         FixAction `json:"fix_action,omitempty"`
	Detail      Detail    `json:"detail,omitempty"`
}

// NewIssue builds an issue whose Kind is taken from detail.
func NewIssue(id string, sev Severity, src Source, day int, detail Detail, description string) Issue {
	return Issue{
		ID:          id,
		Kind:        detail.Kind(),
		Severity:    sev,
		Source:      src,
		Description: description,
		Day:         day,
		Detail:      detail,
	}
}

func (i Issue) Fixable() bool {
	return i.Fix != FixNone
}

// Detail is implemented only by the variant types in this package.
type Detail interface {
	Kind() Kind
	isDetail()
}

type OverlapDetail struct {
	OverlapMinutes int `json:"overlap_minutes"`
}

type TightTransferDetail struct {
	GapMinutes int `json:"gap_minutes"`
}

type UnreachableTransferDetail struct {
	GapMinutes    int     `json:"gap_minutes"`
	TravelMinutes int     `json:"travel_minutes"`
	DistanceKm    float64 `json:"distance_km"`
	Mode          string  `json:"mode"`
}

type BacktrackingDetail struct {
	DirectKm float64 `json:"direct_km"`
	TwoHopKm float64 `json:"two_hop_km"`
}

type OverloadReason string

const (
	OverloadTooLong OverloadReason = "too_long"
	OverloadFatigue OverloadReason = "fatigue"
)

type FatigueLevel string

const (
	FatigueNormal   FatigueLevel = "normal"
	FatigueModerate FatigueLevel = "moderate"
	FatigueHigh     FatigueLevel = "high"
	FatigueExtreme  FatigueLevel = "extreme"
)

type OverloadedDayDetail struct {
	Reason        OverloadReason `json:"reason"`
	SpanMinutes   int            `json:"span_minutes"`
	Activities    int            `json:"activity_count"`
	FatiguePoints int            `json:"fatigue_points,omitempty"`
	Level         FatigueLevel   `json:"level,omitempty"`
}

type BudgetScope string

const (
	BudgetScopeDay  BudgetScope = "day"
	BudgetScopeTrip BudgetScope = "trip"
)

type BudgetExceededDetail struct {
	Scope   BudgetScope `json:"scope"`
	Spent   float64     `json:"spent"`
	Budget  float64     `json:"budget"`
	Overage float64     `json:"overage"`
}

type BudgetTightDetail struct {
	Spent  float64 `json:"spent"`
	Budget float64 `json:"budget"`
}

type BudgetDeviationDetail struct {
	Cost         float64 `json:"cost"`
	Mean         float64 `json:"mean"`
	DeviationPct float64 `json:"deviation_pct"`
}

type EmptyDayDetail struct{}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

var Meals = []MealType{MealBreakfast, MealLunch, MealDinner}

type MissingMealDetail struct {
	Meal MealType `json:"meal"`
}

type LongGapDetail struct {
	GapMinutes int    `json:"gap_minutes"`
	From       string `json:"from"`
	To         string `json:"to"`
}

type EnergyBand string

const (
	EnergyGood     EnergyBand = "good"
	EnergyLow      EnergyBand = "low"
	EnergyNeedRest EnergyBand = "needs_rest"
	EnergyBurnout  EnergyBand = "burnout_risk"
)

type LowEnergyDayDetail struct {
	Energy int        `json:"energy"`
	Band   EnergyBand `json:"band"`
}

type LowEnergyPeriodDetail struct {
	StartDay  int `json:"start_day"`
	EndDay    int `json:"end_day"`
	Length    int `json:"length"`
	MinEnergy int `json:"min_energy"`
}

type MissingCoordinatesDetail struct{}

type LowVarietyDetail struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Share    float64  `json:"share"`
}

type UnusualHourDetail struct {
	Time string `json:"time"`
}

func (OverlapDetail) Kind() Kind             { return KindOverlap }
func (TightTransferDetail) Kind() Kind       { return KindTightTransfer }
func (UnreachableTransferDetail) Kind() Kind { return KindUnreachableTransfer }
func (BacktrackingDetail) Kind() Kind        { return KindBacktracking }
func (OverloadedDayDetail) Kind() Kind       { return KindOverloadedDay }
func (BudgetExceededDetail) Kind() Kind      { return KindBudgetExceeded }
func (BudgetTightDetail) Kind() Kind         { return KindBudgetTight }
func (BudgetDeviationDetail) Kind() Kind     { return KindBudgetDeviation }
func (EmptyDayDetail) Kind() Kind            { return KindEmptyDay }
func (MissingMealDetail) Kind() Kind         { return KindMissingMeal }
func (LongGapDetail) Kind() Kind             { return KindLongGap }
func (LowEnergyDayDetail) Kind() Kind        { return KindLowEnergyDay }
func (LowEnergyPeriodDetail) Kind() Kind     { return KindLowEnergyPeriod }
func (MissingCoordinatesDetail) Kind() Kind  { return KindMissingCoordinates }
func (LowVarietyDetail) Kind() Kind          { return KindLowVariety }
func (UnusualHourDetail) Kind() Kind         { return KindUnusualHour }

func (OverlapDetail) isDetail()             {}
func (TightTransferDetail) isDetail()       {}
func (UnreachableTransferDetail) isDetail() {}
func (BacktrackingDetail) isDetail()        {}
func (OverloadedDayDetail) isDetail()       {}
func (BudgetExceededDetail) isDetail()      {}
func (BudgetTightDetail) isDetail()         {}
func (BudgetDeviationDetail) isDetail()     {}
func (EmptyDayDetail) isDetail()            {}
func (MissingMealDetail) isDetail()         {}
func (LongGapDetail) isDetail()             {}
func (LowEnergyDayDetail) isDetail()        {}
func (LowEnergyPeriodDetail) isDetail()     {}
func (MissingCoordinatesDetail) isDetail()  {}
func (LowVarietyDetail) isDetail()          {}
func (UnusualHourDetail) isDetail()         {}

// UnmarshalJSON restores the concrete Detail variant from the issue kind.
func (i *Issue) UnmarshalJSON(b []byte) error {
	type alias Issue
	var raw struct {
		alias
		Detail json.RawMessage `json:"detail,omitempty"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*i = Issue(raw.alias)
	d, err := decodeDetail(i.Kind, raw.Detail)
	if err != nil {
		return fmt.Errorf("failed to decode %s detail: %w", i.Kind, err)
	}
	i.Detail = d
	return nil
}

func decodeDetail(k Kind, raw json.RawMessage) (Detail, error) {
	switch k {
	case KindOverlap:
		return decode[OverlapDetail](raw)
	case KindTightTransfer:
		return decode[TightTransferDetail](raw)
	case KindUnreachableTransfer:
		return decode[UnreachableTransferDetail](raw)
	case KindBacktracking:
		return decode[BacktrackingDetail](raw)
	case KindOverloadedDay:
		return decode[OverloadedDayDetail](raw)
	case KindBudgetExceeded:
		return decode[BudgetExceededDetail](raw)
	case KindBudgetTight:
		return decode[BudgetTightDetail](raw)
	case KindBudgetDeviation:
		return decode[BudgetDeviationDetail](raw)
	case KindEmptyDay:
		return decode[EmptyDayDetail](raw)
	case KindMissingMeal:
		return decode[MissingMealDetail](raw)
	case KindLongGap:
		return decode[LongGapDetail](raw)
	case KindLowEnergyDay:
		return decode[LowEnergyDayDetail](raw)
	case KindLowEnergyPeriod:
		return decode[LowEnergyPeriodDetail](raw)
	case KindMissingCoordinates:
		return decode[MissingCoordinatesDetail](raw)
	case KindLowVariety:
		return decode[LowVarietyDetail](raw)
	case KindUnusualHour:
		return decode[UnusualHourDetail](raw)
	}
	return nil, fmt.Errorf("unknown issue kind %q", k)
}

func decode[T Detail](raw json.RawMessage) (Detail, error) {
	var d T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
	}
	return d, nil
}
