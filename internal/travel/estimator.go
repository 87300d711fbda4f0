package travel

import (
	"fmt"
	"math"

	"github.com/FACorreiaa/go-itinerary-health/internal/geotime"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// Band maps distances below UpperKm to a transport mode. Cost is FlatCost
// plus CostPerKm for every kilometre, rounded up.
type Band struct {
	UpperKm      float64
	Mode         string
	MinutesPerKm float64
	FlatCost     float64
	CostPerKm    float64
}

type Config struct {
	Bands []Band
	// WarnAfterMinutes flags long transfers for the caller to surface.
	WarnAfterMinutes int
}

func DefaultConfig() Config {
	return Config{
		Bands: []Band{
			{UpperKm: 0.5, Mode: "walk", MinutesPerKm: 15},
			{UpperKm: 2, Mode: "metro", MinutesPerKm: 12, FlatCost: 170},
			{UpperKm: 5, Mode: "metro", MinutesPerKm: 8, FlatCost: 200},
			{UpperKm: 15, Mode: "train", MinutesPerKm: 6, FlatCost: 300},
			{UpperKm: 50, Mode: "intercity_rail", MinutesPerKm: 4, FlatCost: 800},
			{UpperKm: math.Inf(1), Mode: "shinkansen", MinutesPerKm: 2.5, CostPerKm: 20},
		},
		WarnAfterMinutes: 60,
	}
}

type Estimate struct {
	DistanceKm float64 `json:"distance_km"`
	Mode       string  `json:"mode"`
	Minutes    int     `json:"minutes"`
	Cost       float64 `json:"cost"`
	Warning    string  `json:"warning,omitempty"`
}

type Estimator struct {
	cfg Config
}

// NewEstimator validates that bands are sorted by upper bound and that the
// last band is unbounded.
func NewEstimator(cfg Config) (*Estimator, error) {
	if len(cfg.Bands) == 0 {
		return nil, fmt.Errorf("travel estimator needs at least one band")
	}
	for i := 1; i < len(cfg.Bands); i++ {
		if cfg.Bands[i].UpperKm <= cfg.Bands[i-1].UpperKm {
			return nil, fmt.Errorf("travel band %d (%s) is not above band %d", i, cfg.Bands[i].Mode, i-1)
		}
	}
	if !math.IsInf(cfg.Bands[len(cfg.Bands)-1].UpperKm, 1) {
		return nil, fmt.Errorf("last travel band must be unbounded")
	}
	bands := append([]Band(nil), cfg.Bands...)
	cfg.Bands = bands
	return &Estimator{cfg: cfg}, nil
}

// MustEstimator is NewEstimator for configurations known to be valid.
func MustEstimator(cfg Config) *Estimator {
	e, err := NewEstimator(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

// Between estimates the transfer from a to b.
func (e *Estimator) Between(a, b types.Coordinate) Estimate {
	return e.ForDistance(geotime.DistanceKm(a, b))
}

// ForDistance picks the first band whose upper bound exceeds km.
func (e *Estimator) ForDistance(km float64) Estimate {
	band := e.cfg.Bands[len(e.cfg.Bands)-1]
	for _, b := range e.cfg.Bands {
		if km < b.UpperKm {
			band = b
			break
		}
	}
	est := Estimate{
		DistanceKm: km,
		Mode:       band.Mode,
		Minutes:    int(math.Ceil(km * band.MinutesPerKm)),
		Cost:       band.FlatCost + math.Ceil(km*band.CostPerKm),
	}
	if e.cfg.WarnAfterMinutes > 0 && est.Minutes > e.cfg.WarnAfterMinutes {
		est.Warning = fmt.Sprintf("long transfer: about %d minutes by %s", est.Minutes, est.Mode)
	}
	return est
}

// Activities estimates the leg between two activities. ok is false when
// either has no coordinates.
func (e *Estimator) Activities(from, to types.Activity) (Estimate, bool) {
	if from.Coordinate == nil || to.Coordinate == nil {
		return Estimate{}, false
	}
	return e.Between(*from.Coordinate, *to.Coordinate), true
}
