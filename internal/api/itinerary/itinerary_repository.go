package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository loads and stores whole trips.
type Repository interface {
	LoadTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error)
	SaveTrip(ctx context.Context, trip *types.Trip) error
}

// DB is the part of pgxpool.Pool the repository uses.
type DB interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool DB
}

func NewRepository(pgxpool DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *RepositoryImpl) LoadTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("ItineraryRepository").Start(ctx, "LoadTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip := &types.Trip{ID: tripID}
	var start, end *time.Time
	err := r.pgpool.QueryRow(ctx, `
		SELECT name, start_date, end_date, budget, daily_budget, currency
		FROM trips
		WHERE id = $1
	`, tripID).Scan(&trip.Name, &start, &end, &trip.Budget, &trip.DailyBudget, &trip.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "trip not found")
			return nil, fmt.Errorf("%w: %s", types.ErrTripNotFound, tripID)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}
	if start != nil {
		trip.StartDate = *start
	}
	if end != nil {
		trip.EndDate = *end
	}

	if trip.Days, err = r.loadDays(ctx, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "loading days failed")
		return nil, err
	}
	if err = r.loadActivities(ctx, trip); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "loading activities failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("days.count", len(trip.Days)))
	span.SetStatus(codes.Ok, "trip loaded")
	return trip, nil
}

func (r *RepositoryImpl) loadDays(ctx context.Context, tripID uuid.UUID) ([]types.Day, error) {
	rows, err := r.pgpool.Query(ctx, `
		SELECT day_number, day_date, cities, budget, pace, rest_day, base_lat, base_lng
		FROM trip_days
		WHERE trip_id = $1
		ORDER BY day_number
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trip days: %w", err)
	}
	defer rows.Close()

	days := []types.Day{}
	for rows.Next() {
		var (
			d        types.Day
			date     *time.Time
			pace     string
			lat, lng *float64
		)
		if err := rows.Scan(&d.Number, &date, &d.Cities, &d.Budget, &pace, &d.RestDay, &lat, &lng); err != nil {
			return nil, fmt.Errorf("failed to scan trip day: %w", err)
		}
		if date != nil {
			d.Date = *date
		}
		d.Pace = types.Pace(pace)
		if lat != nil && lng != nil {
			d.Base = &types.Coordinate{Lat: *lat, Lng: *lng}
		}
		d.Activities = []types.Activity{}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip days: %w", err)
	}
	return days, nil
}

func (r *RepositoryImpl) loadActivities(ctx context.Context, trip *types.Trip) error {
	rows, err := r.pgpool.Query(ctx, `
		SELECT day_number, activity_id, title, category, start_time, duration_minutes,
		       lat, lng, cost, location, meal, must_see, rating, swapped_from
		FROM trip_activities
		WHERE trip_id = $1
		ORDER BY day_number, position
	`, trip.ID)
	if err != nil {
		return fmt.Errorf("failed to query trip activities: %w", err)
	}
	defer rows.Close()

	byNumber := make(map[int]int, len(trip.Days))
	for i, d := range trip.Days {
		byNumber[d.Number] = i
	}
	for rows.Next() {
		var (
			a        types.Activity
			day      int
			category string
			lat, lng *float64
		)
		if err := rows.Scan(&day, &a.ID, &a.Title, &category, &a.Time, &a.Duration,
			&lat, &lng, &a.Cost, &a.Location, &a.Meal, &a.MustSee, &a.Rating, &a.SwappedFrom); err != nil {
			return fmt.Errorf("failed to scan trip activity: %w", err)
		}
		a.Category = types.NormalizeCategory(category)
		if lat != nil && lng != nil {
			a.Coordinate = &types.Coordinate{Lat: *lat, Lng: *lng}
		}
		idx, ok := byNumber[day]
		if !ok {
			r.logger.WarnContext(ctx, "Activity references unknown day",
				slog.String("trip_id", trip.ID.String()), slog.Int("day", day), slog.String("activity", a.ID))
			continue
		}
		trip.Days[idx].Activities = append(trip.Days[idx].Activities, a)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating trip activities: %w", err)
	}
	return nil
}

// SaveTrip replaces the stored trip with the given state in one transaction.
func (r *RepositoryImpl) SaveTrip(ctx context.Context, trip *types.Trip) error {
	ctx, span := otel.Tracer("ItineraryRepository").Start(ctx, "SaveTrip", trace.WithAttributes(
		attribute.String("trip.id", trip.ID.String()),
	))
	defer span.End()

	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `
		INSERT INTO trips (id, name, start_date, end_date, budget, daily_budget, currency, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			budget = EXCLUDED.budget,
			daily_budget = EXCLUDED.daily_budget,
			currency = EXCLUDED.currency,
			updated_at = NOW()
	`, trip.ID, trip.Name, nullTime(trip.StartDate), nullTime(trip.EndDate), trip.Budget, trip.DailyBudget, trip.Currency); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert trip: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM trip_days WHERE trip_id = $1`, trip.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to clear trip days: %w", err)
	}

	for _, d := range trip.Days {
		var lat, lng *float64
		if d.Base != nil {
			lat, lng = &d.Base.Lat, &d.Base.Lng
		}
		if _, err = tx.Exec(ctx, `
			INSERT INTO trip_days (trip_id, day_number, day_date, cities, budget, pace, rest_day, base_lat, base_lng)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, trip.ID, d.Number, nullTime(d.Date), d.Cities, d.Budget, string(d.Pace), d.RestDay, lat, lng); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to insert day %d: %w", d.Number, err)
		}
		for pos, a := range d.Activities {
			var alat, alng *float64
			if a.Coordinate != nil {
				alat, alng = &a.Coordinate.Lat, &a.Coordinate.Lng
			}
			if _, err = tx.Exec(ctx, `
				INSERT INTO trip_activities (trip_id, day_number, position, activity_id, title, category,
					start_time, duration_minutes, lat, lng, cost, location, meal, must_see, rating, swapped_from)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			`, trip.ID, d.Number, pos, a.ID, a.Title, string(a.Category), a.Time, a.Duration,
				alat, alng, a.Cost, a.Location, a.Meal, a.MustSee, a.Rating, a.SwappedFrom); err != nil {
				span.RecordError(err)
				return fmt.Errorf("failed to insert activity %q on day %d: %w", a.ID, d.Number, err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "trip saved")
	r.logger.InfoContext(ctx, "Trip saved", slog.String("trip_id", trip.ID.String()), slog.Int("days", len(trip.Days)))
	return nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
