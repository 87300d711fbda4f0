package types

// PlaceQuery asks the places lookup for venues around a point.
type PlaceQuery struct {
	Center       Coordinate `json:"center"`
	RadiusMeters float64    `json:"radius_meters"`
	Categories   []Category `json:"categories"`
	MaxResults   int        `json:"max_results"`
	City         string     `json:"city,omitempty"`
}

// Candidate is a venue returned by the places lookup, ranked by rating.
type Candidate struct {
	Name       string     `json:"name"`
	Category   Category   `json:"category"`
	Coordinate Coordinate `json:"coordinates"`
	Rating     float64    `json:"rating"`
	Address    string     `json:"address,omitempty"`
	Cost       *float64   `json:"cost,omitempty"`
	Distance   float64    `json:"distance,omitempty"`
}
