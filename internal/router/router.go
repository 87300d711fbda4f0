package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// TripHandler serves the trip health and quick fix endpoints.
type TripHandler interface {
	CheckTrip(w http.ResponseWriter, r *http.Request)
	GetTripHealth(w http.ResponseWriter, r *http.Request)
	ApplyFix(w http.ResponseWriter, r *http.Request)
	FixAll(w http.ResponseWriter, r *http.Request)
}

// Config contains dependencies needed for the router setup
type Config struct {
	TripHandler            TripHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
}

// SetupRouter initializes the API router. Server-wide middleware (logger,
// request ID, recoverer) is applied in main before mounting it.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		// Read-only analysis is public
		r.Post("/health/check", cfg.TripHandler.CheckTrip)
		r.Get("/trips/{tripID}/health", cfg.TripHandler.GetTripHealth)

		// Fixes mutate the stored trip
		r.Group(func(r chi.Router) {
			if cfg.AuthenticateMiddleware != nil {
				r.Use(cfg.AuthenticateMiddleware)
			}
			r.Post("/trips/{tripID}/fixes", cfg.TripHandler.FixAll)
			r.Post("/trips/{tripID}/fixes/{issueID}", cfg.TripHandler.ApplyFix)
		})
	})

	return r
}
