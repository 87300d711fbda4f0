package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	AnalysesTotal          metric.Int64Counter
	IssuesTotal            metric.Int64Counter
	FixesTotal             metric.Int64Counter
	FixDurationSeconds     metric.Float64Histogram
	PlacesLookupsTotal     metric.Int64Counter
	PlacesCacheHitsTotal   metric.Int64Counter
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments once, using the
// Meter of the globally configured MeterProvider. Call it after the provider
// is set up so the instruments are exported.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("ItineraryHealth")
		var err error
		m := &AppMetrics{}

		m.AnalysesTotal, err = meter.Int64Counter(
			"trip_analyses_total",
			metric.WithDescription("Total number of trip health analyses"),
			metric.WithUnit("{analysis}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_analyses_total: %v", err)
		}

		m.IssuesTotal, err = meter.Int64Counter(
			"trip_issues_total",
			metric.WithDescription("Issues detected, by severity"),
			metric.WithUnit("{issue}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_issues_total: %v", err)
		}

		m.FixesTotal, err = meter.Int64Counter(
			"trip_fixes_total",
			metric.WithDescription("Quick fixes attempted, by action and outcome"),
			metric.WithUnit("{fix}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_fixes_total: %v", err)
		}

		m.FixDurationSeconds, err = meter.Float64Histogram(
			"trip_fix_duration_seconds",
			metric.WithDescription("Duration of quick fix requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_fix_duration_seconds: %v", err)
		}

		m.PlacesLookupsTotal, err = meter.Int64Counter(
			"places_lookups_total",
			metric.WithDescription("Places lookups, by source"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_lookups_total: %v", err)
		}

		m.PlacesCacheHitsTotal, err = meter.Int64Counter(
			"places_cache_hits_total",
			metric.WithDescription("Places lookups served from cache"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_cache_hits_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global AppMetrics, initializing it against the current
// MeterProvider if InitAppMetrics has not run yet.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
