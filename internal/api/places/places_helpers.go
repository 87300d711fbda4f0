package places

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// cleanJSONResponse strips markdown fences and any prose around the JSON
// object in a model response.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace <= firstBrace {
		return response
	}
	return strings.TrimSpace(response[firstBrace : lastBrace+1])
}

// generatePlacesCacheKey rounds the center to about 10 m so nearby lookups
// share an entry.
func generatePlacesCacheKey(q types.PlaceQuery) string {
	cats := make([]string, 0, len(q.Categories))
	for _, c := range q.Categories {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)
	return fmt.Sprintf("places_near:%.4f:%.4f:%.0f:%d:%s:%s",
		q.Center.Lat, q.Center.Lng, q.RadiusMeters, q.MaxResults, strings.ToLower(q.City), strings.Join(cats, ","))
}

func wantsCategory(q types.PlaceQuery, c types.Category) bool {
	if len(q.Categories) == 0 {
		return true
	}
	for _, w := range q.Categories {
		if w == c {
			return true
		}
	}
	return false
}

// rankCandidates sorts by rating, best first, breaking ties by distance and
// name, and truncates to max when max is positive.
func rankCandidates(cands []types.Candidate, max int) []types.Candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Rating != cands[j].Rating {
			return cands[i].Rating > cands[j].Rating
		}
		if cands[i].Distance != cands[j].Distance {
			return cands[i].Distance < cands[j].Distance
		}
		return cands[i].Name < cands[j].Name
	})
	if max > 0 && len(cands) > max {
		cands = cands[:max]
	}
	return cands
}

func copyCandidates(in []types.Candidate) []types.Candidate {
	out := make([]types.Candidate, len(in))
	for i, c := range in {
		out[i] = c
		if c.Cost != nil {
			v := *c.Cost
			out[i].Cost = &v
		}
	}
	return out
}
