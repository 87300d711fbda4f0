package places

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

func getPlacesNearPrompt(q types.PlaceQuery) string {
	cats := make([]string, 0, len(q.Categories))
	for _, c := range q.Categories {
		cats = append(cats, string(c))
	}
	wanted := "any of: sightseeing, food, shopping, culture, nature, entertainment, nightlife"
	if len(cats) > 0 {
		wanted = strings.Join(cats, ", ")
	}
	city := ""
	if q.City != "" {
		city = fmt.Sprintf(" in %s", q.City)
	}
	return fmt.Sprintf(`
            Suggest up to %d real, currently operating places%s that a traveller could visit.
            The traveller is at latitude %0.5f and longitude %0.5f.
            Only include places within %0.2f kilometers of that point.
            Categories wanted: %s.
            Return the response STRICTLY as a JSON object with:
            {
            "places": [
                {
                "name": "Name of the place",
                "category": "One of the categories above",
                "latitude": <float>,
                "longitude": <float>,
                "rating": <float between 0 and 5>,
                "address": "Street address",
                "estimated_cost": <float, typical spend per person in local currency, 0 if free>
                }
            ]
            }`, q.MaxResults, city, q.Center.Lat, q.Center.Lng, q.RadiusMeters/1000, wanted)
}
