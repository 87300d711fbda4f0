package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-itinerary-health/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-health/internal/repair"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service analyses trips and applies quick fixes to them.
type Service interface {
	// Check analyses a trip supplied by the caller without persisting it.
	Check(ctx context.Context, trip *types.Trip) (*types.HealthReport, error)
	CheckTrip(ctx context.Context, tripID uuid.UUID) (*types.HealthReport, error)
	ApplyFix(ctx context.Context, tripID uuid.UUID, issueID string) (*types.FixResult, error)
	FixAll(ctx context.Context, tripID uuid.UUID) (*types.FixResult, error)

	// ApplyFixTo and FixAllOn modify the given trip in place and never save.
	ApplyFixTo(ctx context.Context, trip *types.Trip, issueID string) (*types.FixResult, error)
	FixAllOn(ctx context.Context, trip *types.Trip) (*types.FixResult, error)
}

// HealthChecker is satisfied by *health.Checker.
type HealthChecker interface {
	Check(trip *types.Trip) types.HealthReport
	Issues(trip *types.Trip) []types.Issue
}

// Fixer is satisfied by *repair.Engine.
type Fixer interface {
	Apply(ctx context.Context, trip *types.Trip, issue types.Issue) types.FixOutcome
	FixAll(ctx context.Context, trip *types.Trip, inspector repair.Inspector, maxPasses int) []types.FixOutcome
}

type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
	checker    HealthChecker
	fixer      Fixer
	maxPasses  int
	locks      *tripLocks
}

func NewServiceImpl(repository Repository, checker HealthChecker, fixer Fixer, maxPasses int, logger *slog.Logger) *ServiceImpl {
	if maxPasses <= 0 {
		maxPasses = 20
	}
	return &ServiceImpl{
		logger:     logger,
		repository: repository,
		checker:    checker,
		fixer:      fixer,
		maxPasses:  maxPasses,
		locks:      newTripLocks(),
	}
}

func (s *ServiceImpl) Check(ctx context.Context, trip *types.Trip) (*types.HealthReport, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Check", trace.WithAttributes(
		attribute.Int("days.count", len(trip.Days)),
	))
	defer span.End()

	if err := trip.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid trip")
		return nil, err
	}
	report := s.analyse(ctx, trip)
	span.SetAttributes(attribute.Int("health.score", report.Score))
	span.SetStatus(codes.Ok, "trip analysed")
	return report, nil
}

func (s *ServiceImpl) CheckTrip(ctx context.Context, tripID uuid.UUID) (*types.HealthReport, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "CheckTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.load(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	report := s.analyse(ctx, trip)
	span.SetAttributes(attribute.Int("health.score", report.Score))
	span.SetStatus(codes.Ok, "trip analysed")
	return report, nil
}

// ApplyFix loads the trip, applies the fix of one issue and saves the trip
// when the fix was applied. Fixes on the same trip are serialised.
func (s *ServiceImpl) ApplyFix(ctx context.Context, tripID uuid.UUID, issueID string) (*types.FixResult, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "ApplyFix", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("issue.id", issueID),
	))
	defer span.End()

	unlock := s.locks.lock(tripID)
	defer unlock()

	trip, err := s.load(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	result, err := s.ApplyFixTo(ctx, trip, issueID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fix failed")
		return nil, err
	}
	if err := s.persist(ctx, trip, result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("fix.applied", result.Applied > 0))
	span.SetStatus(codes.Ok, "fix processed")
	return result, nil
}

// FixAll loads the trip, runs fixes until nothing fixable is left or the
// pass limit is reached, and saves once if anything was applied.
func (s *ServiceImpl) FixAll(ctx context.Context, tripID uuid.UUID) (*types.FixResult, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "FixAll", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	unlock := s.locks.lock(tripID)
	defer unlock()

	trip, err := s.load(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	result, err := s.FixAllOn(ctx, trip)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fix failed")
		return nil, err
	}
	if err := s.persist(ctx, trip, result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("fix.applied", result.Applied))
	span.SetStatus(codes.Ok, "fixes processed")
	return result, nil
}

func (s *ServiceImpl) ApplyFixTo(ctx context.Context, trip *types.Trip, issueID string) (*types.FixResult, error) {
	if err := trip.Validate(); err != nil {
		return nil, err
	}
	var (
		issue types.Issue
		found bool
	)
	for _, is := range s.checker.Issues(trip) {
		if is.ID == issueID {
			issue, found = is, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", types.ErrIssueNotFound, issueID)
	}

	start := time.Now()
	outcome := s.fixer.Apply(ctx, trip, issue)
	s.recordFixes(ctx, start, outcome)
	return s.result(ctx, trip, []types.FixOutcome{outcome}), nil
}

func (s *ServiceImpl) FixAllOn(ctx context.Context, trip *types.Trip) (*types.FixResult, error) {
	if err := trip.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	outcomes := s.fixer.FixAll(ctx, trip, s.checker, s.maxPasses)
	s.recordFixes(ctx, start, outcomes...)
	return s.result(ctx, trip, outcomes), nil
}

func (s *ServiceImpl) load(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	trip, err := s.repository.LoadTrip(ctx, tripID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load trip", slog.String("trip_id", tripID.String()), slog.Any("error", err))
		return nil, err
	}
	if err := trip.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Stored trip is invalid", slog.String("trip_id", tripID.String()), slog.Any("error", err))
		return nil, err
	}
	return trip, nil
}

func (s *ServiceImpl) persist(ctx context.Context, trip *types.Trip, result *types.FixResult) error {
	if result.Applied == 0 {
		return nil
	}
	if err := s.repository.SaveTrip(ctx, trip); err != nil {
		s.logger.ErrorContext(ctx, "failed to save trip", slog.String("trip_id", trip.ID.String()), slog.Any("error", err))
		return fmt.Errorf("failed to save trip: %w", err)
	}
	result.Saved = true
	return nil
}

func (s *ServiceImpl) analyse(ctx context.Context, trip *types.Trip) *types.HealthReport {
	report := s.checker.Check(trip)

	m := metrics.Get()
	m.AnalysesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("verdict", string(report.Verdict))))
	for sev, n := range map[types.Severity]int{
		types.SeverityCritical:   len(report.Critical),
		types.SeverityWarning:    len(report.Warnings),
		types.SeveritySuggestion: len(report.Suggestions),
	} {
		if n > 0 {
			m.IssuesTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String("severity", sev.String())))
		}
	}
	s.logger.DebugContext(ctx, "Trip analysed",
		slog.String("trip_id", trip.ID.String()),
		slog.Int("score", report.Score),
		slog.Int("critical", len(report.Critical)),
		slog.Int("warnings", len(report.Warnings)))
	return &report
}

func (s *ServiceImpl) result(ctx context.Context, trip *types.Trip, outcomes []types.FixOutcome) *types.FixResult {
	res := &types.FixResult{Outcomes: outcomes, Report: s.analyse(ctx, trip)}
	if res.Outcomes == nil {
		res.Outcomes = []types.FixOutcome{}
	}
	if trip.ID != uuid.Nil {
		res.TripID = trip.ID.String()
	}
	for _, o := range outcomes {
		if o.Applied {
			res.Applied++
		}
	}
	return res
}

func (s *ServiceImpl) recordFixes(ctx context.Context, start time.Time, outcomes ...types.FixOutcome) {
	m := metrics.Get()
	m.FixDurationSeconds.Record(ctx, time.Since(start).Seconds())
	for _, o := range outcomes {
		m.FixesTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("action", string(o.Action)),
			attribute.Bool("applied", o.Applied),
		))
	}
}
