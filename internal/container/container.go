package container

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-itinerary-health/app/db"
	"github.com/FACorreiaa/go-itinerary-health/config"
	generativeAI "github.com/FACorreiaa/go-itinerary-health/internal/api/generative_ai"
	"github.com/FACorreiaa/go-itinerary-health/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-health/internal/api/places"
	"github.com/FACorreiaa/go-itinerary-health/internal/health"
	"github.com/FACorreiaa/go-itinerary-health/internal/repair"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	ConnectionURL    string
	Checker          *health.Checker
	PlacesService    *places.ServiceImpl
	ItineraryService *itinerary.ServiceImpl
	ItineraryHandler *itinerary.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	placesRepo := places.NewRepository(pool, logger)
	placesService := NewPlacesService(cfg, placesRepo, logger)

	checker, engine, err := NewEngine(cfg, placesService, logger)
	if err != nil {
		pool.Close()
		logger.Error("Failed to build health engine", slog.Any("error", err))
		return nil, err
	}

	itineraryRepo := itinerary.NewRepository(pool, logger)
	itineraryService := itinerary.NewServiceImpl(itineraryRepo, checker, engine, cfg.Engine.MaxFixPasses, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Pool:             pool,
		ConnectionURL:    dbConfig.ConnectionURL,
		Checker:          checker,
		PlacesService:    placesService,
		ItineraryService: itineraryService,
		ItineraryHandler: itineraryHandler,
	}, nil
}

// NewPlacesService builds the places lookup over repo, adding the Gemini
// fallback when an API key is configured. repo may be nil.
func NewPlacesService(cfg *config.Config, repo places.Repository, logger *slog.Logger) *places.ServiceImpl {
	var suggester places.Suggester
	client, err := generativeAI.NewAIClient(context.Background(), cfg.Places.GeminiAPIKey, cfg.Places.GeminiModel)
	switch {
	case err == nil:
		suggester = places.NewGeminiSuggester(client, logger)
		logger.Info("Gemini place suggestions enabled", slog.String("model", client.Model()))
	case errors.Is(err, generativeAI.ErrMissingAPIKey):
		logger.Info("Gemini place suggestions disabled, no API key configured")
	default:
		logger.Warn("Gemini place suggestions disabled", slog.Any("error", err))
	}

	pc := places.DefaultConfig()
	if cfg.Places.Timeout > 0 {
		pc.Timeout = cfg.Places.Timeout
	}
	if cfg.Places.CacheTTL > 0 {
		pc.CacheTTL = cfg.Places.CacheTTL
	}
	return places.NewServiceImpl(repo, suggester, pc, logger)
}

// NewEngine builds the checker and the repair engine from the engine and
// places sections of cfg. Zero values keep the defaults.
func NewEngine(cfg *config.Config, finder repair.PlacesFinder, logger *slog.Logger) (*health.Checker, *repair.Engine, error) {
	hc := health.DefaultConfig()
	rc := repair.DefaultConfig()
	e := cfg.Engine

	if e.MinBufferMinutes > 0 {
		hc.Conflict.MinBufferMinutes = e.MinBufferMinutes
		hc.Analyzer.Overload.MinBufferMinutes = e.MinBufferMinutes
		rc.MinBufferMinutes = e.MinBufferMinutes
	}
	if e.MaxActivities > 0 {
		rc.MaxActivities = e.MaxActivities
	}
	if e.HighCostThreshold > 0 {
		rc.HighCostThreshold = e.HighCostThreshold
	}
	if e.HealthyThreshold > 0 {
		hc.HealthyThreshold = e.HealthyThreshold
	}
	p := e.Penalties
	setIfPositive(&hc.Penalties.Critical, p.Critical)
	setIfPositive(&hc.Penalties.Suggestion, p.Suggestion)
	for src, v := range map[types.Source]int{
		types.SourceConflict: p.Conflict,
		types.SourceCoverage: p.Coverage,
		types.SourceBudget:   p.Budget,
		types.SourceOverload: p.Overload,
		types.SourceEnergy:   p.Energy,
	} {
		if v > 0 {
			hc.Penalties.Warning[src] = v
		}
	}
	if cfg.Places.RadiusMeters > 0 {
		rc.SearchRadius = cfg.Places.RadiusMeters
	}
	if cfg.Places.MaxResults > 0 {
		rc.MaxCandidates = cfg.Places.MaxResults
	}

	checker, err := health.NewChecker(hc)
	if err != nil {
		return nil, nil, err
	}
	engine := repair.NewEngine(rc, checker.Estimator(), checker.Coverage(), finder, logger)
	return checker, engine, nil
}

func setIfPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations() error {
	return database.RunMigrations(c.ConnectionURL, c.Logger)
}
