package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-itinerary-health/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-health/internal/repair"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

var (
	_ Service             = (*ServiceImpl)(nil)
	_ repair.PlacesFinder = (*ServiceImpl)(nil)
)

var ErrNoPlaces = errors.New("no places found")

type Service interface {
	SearchNear(ctx context.Context, q types.PlaceQuery) ([]types.Candidate, error)
}

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func DefaultConfig() Config {
	return Config{Timeout: 5 * time.Second, CacheTTL: 30 * time.Minute}
}

type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
	suggester  Suggester
	cache      *cache.Cache
	group      singleflight.Group
	timeout    time.Duration
}

// NewServiceImpl builds the lookup. repository and suggester may each be
// nil; with both nil every search fails.
func NewServiceImpl(repository Repository, suggester Suggester, cfg Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repository,
		suggester:  suggester,
		cache:      cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		timeout:    cfg.Timeout,
	}
}

// SearchNear returns up to q.MaxResults candidates, best rated first. Stored
// places are preferred; the suggester is asked only when the store returns
// nothing or fails. Results are cached per rounded query and concurrent
// identical lookups share one upstream call.
func (s *ServiceImpl) SearchNear(ctx context.Context, q types.PlaceQuery) ([]types.Candidate, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchNear", trace.WithAttributes(
		attribute.Float64("latitude", q.Center.Lat),
		attribute.Float64("longitude", q.Center.Lng),
		attribute.Float64("radius", q.RadiusMeters),
	))
	defer span.End()

	key := generatePlacesCacheKey(q)
	if cached, found := s.cache.Get(key); found {
		metrics.Get().PlacesCacheHitsTotal.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "served from cache")
		return copyCandidates(cached.([]types.Candidate)), nil
	}

	// Every waiter shares this lookup; it ignores the first caller's cancellation.
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.lookup(context.WithoutCancel(ctx), q)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, err
	}
	res := v.([]types.Candidate)
	s.cache.Set(key, res, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("results.count", len(res)))
	span.SetStatus(codes.Ok, "places found")
	return copyCandidates(res), nil
}

func (s *ServiceImpl) lookup(ctx context.Context, q types.PlaceQuery) ([]types.Candidate, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var errs []error
	if s.repository != nil {
		res, err := s.repository.FindNearby(ctx, q)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "Stored places lookup failed", slog.Any("error", err))
			s.record(ctx, "db_error")
			errs = append(errs, err)
		default:
			if res = filterCategories(q, res); len(res) > 0 {
				s.record(ctx, "db")
				return rankCandidates(res, q.MaxResults), nil
			}
		}
	}
	if s.suggester != nil {
		res, err := s.suggester.SuggestNear(ctx, q)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "Place suggestion failed", slog.Any("error", err))
			s.record(ctx, "suggester_error")
			errs = append(errs, err)
		case len(res) > 0:
			s.record(ctx, "suggester")
			return rankCandidates(res, q.MaxResults), nil
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoPlaces, errors.Join(errs...))
	}
	s.record(ctx, "empty")
	return nil, ErrNoPlaces
}

func (s *ServiceImpl) record(ctx context.Context, source string) {
	metrics.Get().PlacesLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func filterCategories(q types.PlaceQuery, cands []types.Candidate) []types.Candidate {
	out := cands[:0:0]
	for _, c := range cands {
		if wantsCategory(q, c.Category) {
			out = append(out, c)
		}
	}
	return out
}
