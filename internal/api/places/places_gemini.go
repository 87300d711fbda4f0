package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-itinerary-health/internal/geotime"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// ContentGenerator is satisfied by generativeAI.AIClient.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// Suggester produces candidates when the places table has nothing nearby.
type Suggester interface {
	SuggestNear(ctx context.Context, q types.PlaceQuery) ([]types.Candidate, error)
}

var _ Suggester = (*GeminiSuggester)(nil)

type GeminiSuggester struct {
	generator ContentGenerator
	logger    *slog.Logger
}

func NewGeminiSuggester(generator ContentGenerator, logger *slog.Logger) *GeminiSuggester {
	return &GeminiSuggester{generator: generator, logger: logger}
}

type suggestedPlace struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Rating        float64  `json:"rating"`
	Address       string   `json:"address"`
	EstimatedCost *float64 `json:"estimated_cost"`
}

type suggestedPlaces struct {
	Places []suggestedPlace `json:"places"`
}

// SuggestNear asks the model for venues and keeps only those that parse, are
// of a requested category and lie inside the query radius.
func (g *GeminiSuggester) SuggestNear(ctx context.Context, q types.PlaceQuery) ([]types.Candidate, error) {
	ctx, span := otel.Tracer("PlacesSuggester").Start(ctx, "SuggestNear", trace.WithAttributes(
		attribute.Float64("latitude", q.Center.Lat),
		attribute.Float64("longitude", q.Center.Lng),
	))
	defer span.End()

	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.2)}
	response, err := g.generator.GenerateContent(ctx, getPlacesNearPrompt(q), config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, fmt.Errorf("failed to generate place suggestions: %w", err)
	}

	var parsed suggestedPlaces
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &parsed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid response")
		g.logger.WarnContext(ctx, "Failed to parse place suggestions", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse place suggestions: %w", err)
	}

	radiusKm := q.RadiusMeters / 1000
	out := make([]types.Candidate, 0, len(parsed.Places))
	for _, p := range parsed.Places {
		c := types.Candidate{
			Name:       strings.TrimSpace(p.Name),
			Category:   types.NormalizeCategory(p.Category),
			Coordinate: types.Coordinate{Lat: p.Latitude, Lng: p.Longitude},
			Rating:     math.Max(0, math.Min(5, p.Rating)),
			Address:    p.Address,
			Cost:       p.EstimatedCost,
		}
		if c.Name == "" || !c.Coordinate.Valid() || !wantsCategory(q, c.Category) {
			continue
		}
		km := geotime.DistanceKm(q.Center, c.Coordinate)
		if radiusKm > 0 && km > radiusKm {
			continue
		}
		c.Distance = km * 1000
		out = append(out, c)
	}

	span.SetAttributes(attribute.Int("results.count", len(out)))
	span.SetStatus(codes.Ok, "suggestions parsed")
	return out, nil
}
