package places

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-itinerary-health/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Querier is the part of pgxpool.Pool the repository uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository interface {
	FindNearby(ctx context.Context, q types.PlaceQuery) ([]types.Candidate, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool Querier
}

func NewRepository(pgxpool Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

const findNearbyQuery = `
        SELECT
            name, category,
            ST_Y(location::geometry) AS latitude,
            ST_X(location::geometry) AS longitude,
            COALESCE(rating, 0), COALESCE(address, ''), cost,
            ST_Distance(location::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance
        FROM places
        WHERE ST_DWithin(location::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
          AND (cardinality($4::text[]) = 0 OR category = ANY($4::text[]))
        ORDER BY rating DESC NULLS LAST, name ASC
        LIMIT $5
    `

// FindNearby returns stored places within the query radius, best rated first.
func (r *RepositoryImpl) FindNearby(ctx context.Context, q types.PlaceQuery) ([]types.Candidate, error) {
	ctx, span := otel.Tracer("PlacesRepository").Start(ctx, "FindNearby", trace.WithAttributes(
		attribute.Float64("latitude", q.Center.Lat),
		attribute.Float64("longitude", q.Center.Lng),
		attribute.Float64("radius", q.RadiusMeters),
	))
	defer span.End()

	categories := make([]string, 0, len(q.Categories))
	for _, c := range q.Categories {
		categories = append(categories, string(c))
	}
	limit := q.MaxResults
	if limit <= 0 {
		limit = 10
	}

	start := time.Now()
	rows, err := r.pgpool.Query(ctx, findNearbyQuery, q.Center.Lng, q.Center.Lat, q.RadiusMeters, categories, limit)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("query", "places_find_nearby")))
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("query", "places_find_nearby")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var out []types.Candidate
	for rows.Next() {
		var (
			c        types.Candidate
			category string
		)
		if err := rows.Scan(&c.Name, &category, &c.Coordinate.Lat, &c.Coordinate.Lng,
			&c.Rating, &c.Address, &c.Cost, &c.Distance); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		c.Category = types.NormalizeCategory(category)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating place rows: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(out)))
	span.SetStatus(codes.Ok, "places found")
	r.logger.DebugContext(ctx, "Places retrieved", slog.Int("count", len(out)))
	return out, nil
}
