package types

type DayCost struct {
	Day    int     `json:"day"`
	Total  float64 `json:"total"`
	Budget float64 `json:"budget,omitempty"`
}

type BudgetReport struct {
	Currency       string    `json:"currency"`
	Days           []DayCost `json:"days"`
	TotalSpent     float64   `json:"total_spent"`
	TotalBudget    float64   `json:"total_budget,omitempty"`
	MeanPerDay     float64   `json:"mean_per_day"`
	MostExpensive  *DayCost  `json:"most_expensive,omitempty"`
	LeastExpensive *DayCost  `json:"least_expensive,omitempty"`
}

type EnergyTrend string

const (
	TrendStable    EnergyTrend = "stable"
	TrendImproving EnergyTrend = "improving"
	TrendDeclining EnergyTrend = "declining"
)

type EnergyPoint struct {
	Day     int        `json:"day"`
	Energy  int        `json:"energy"`
	Fatigue float64    `json:"fatigue"`
	Band    EnergyBand `json:"band"`
	RestDay bool       `json:"rest_day,omitempty"`
	JetLag  float64    `json:"jet_lag,omitempty"`
}

type LowEnergyPeriod struct {
	StartDay  int `json:"start_day"`
	EndDay    int `json:"end_day"`
	Length    int `json:"length"`
	MinEnergy int `json:"min_energy"`
}

type Recommendation struct {
	Type    string `json:"type"`
	Day     int    `json:"day,omitempty"`
	Message string `json:"message"`
}

type EnergyForecast struct {
	Curve           []EnergyPoint     `json:"curve"`
	Periods         []LowEnergyPeriod `json:"periods"`
	Trend           EnergyTrend       `json:"trend"`
	AverageEnergy   float64           `json:"average_energy"`
	RestDays        int               `json:"rest_days"`
	Severity        string            `json:"severity"`
	Score           int               `json:"score"`
	Recommendations []Recommendation  `json:"recommendations,omitempty"`
}

// TravelLeg is a transfer between two consecutive activities.
type TravelLeg struct {
	Day        int     `json:"day"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distance_km"`
	Mode       string  `json:"mode"`
	Minutes    int     `json:"minutes"`
	Cost       float64 `json:"cost"`
	Warning    string  `json:"warning,omitempty"`
}

type Metrics struct {
	TotalDays            int              `json:"total_days"`
	TotalActivities      int              `json:"total_activities"`
	AvgActivitiesPerDay  float64          `json:"avg_activities_per_day"`
	TotalEstimatedCost   float64          `json:"total_estimated_cost"`
	ActivitiesByCategory map[Category]int `json:"activities_by_category"`
	OverloadedDays       int              `json:"overloaded_days"`
	EnergyCurve          []int            `json:"energy_curve"`
	EnergyTrend          EnergyTrend      `json:"energy_trend"`
}

type Verdict string

const (
	VerdictExcellent      Verdict = "excellent"
	VerdictGood           Verdict = "good"
	VerdictNeedsAttention Verdict = "needs_attention"
	VerdictCritical       Verdict = "critical"
)

// HealthReport is the full analysis result for a trip. Score is the discrete
// penalty score; Quality is the continuous blend. They are separate numbers.
type HealthReport struct {
	TripID        string         `json:"trip_id,omitempty"`
	Score         int            `json:"score"`
	Quality       float64        `json:"quality"`
	Verdict       Verdict        `json:"verdict"`
	Healthy       bool           `json:"healthy"`
	Critical      []Issue        `json:"critical"`
	Warnings      []Issue        `json:"warnings"`
	Suggestions   []Issue        `json:"suggestions"`
	Metrics       Metrics        `json:"metrics"`
	Budget        BudgetReport   `json:"budget"`
	Energy        EnergyForecast `json:"energy"`
	LongTransfers []TravelLeg    `json:"long_transfers,omitempty"`
}

// Issues returns all issues, most severe first.
func (r *HealthReport) Issues() []Issue {
	out := make([]Issue, 0, len(r.Critical)+len(r.Warnings)+len(r.Suggestions))
	out = append(out, r.Critical...)
	out = append(out, r.Warnings...)
	return append(out, r.Suggestions...)
}

// FixOutcome reports the result of one repair attempt.
type FixOutcome struct {
	IssueID string    `json:"issue_id"`
	Kind    Kind      `json:"kind,omitempty"`
	Action  FixAction `json:"action"`
	Applied bool      `json:"applied"`
	Summary string    `json:"summary,omitempty"`
	Reason  string    `json:"reason,omitempty"`
}

// FixResult is returned by the fix operations: what was attempted, whether
// the trip was persisted and the health of the trip afterwards.
type FixResult struct {
	TripID   string        `json:"trip_id,omitempty"`
	Outcomes []FixOutcome  `json:"outcomes"`
	Applied  int           `json:"applied"`
	Saved    bool          `json:"saved"`
	Report   *HealthReport `json:"report"`
}
