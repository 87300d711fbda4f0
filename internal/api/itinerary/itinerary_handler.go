package itinerary

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-itinerary-health/internal/api"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// CheckTrip godoc
// @Summary      Analyse a trip
// @Description  Runs every analyzer on the posted trip and returns its health report. Nothing is stored.
// @Tags         health
// @Accept       json
// @Produce      json
// @Param        trip  body      types.Trip  true  "Trip to analyse"
// @Success      200   {object}  types.HealthReport
// @Failure      400   {object}  map[string]interface{}
// @Failure      422   {object}  map[string]interface{}
// @Router       /health/check [post]
func (h *HandlerImpl) CheckTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "CheckTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/health/check"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CheckTrip"))
	l.DebugContext(ctx, "Check trip handler invoked")

	var trip types.Trip
	if err := api.DecodeJSONBody(w, r, &trip); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.Check(ctx, &trip)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "check failed")
		h.writeError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "trip analysed")
	api.WriteJSONResponse(w, r, http.StatusOK, report)
}

// GetTripHealth godoc
// @Summary      Health of a stored trip
// @Tags         health
// @Produce      json
// @Param        tripID  path      string  true  "Trip ID"
// @Success      200     {object}  types.HealthReport
// @Failure      400     {object}  map[string]interface{}
// @Failure      404     {object}  map[string]interface{}
// @Failure      422     {object}  map[string]interface{}
// @Router       /trips/{tripID}/health [get]
func (h *HandlerImpl) GetTripHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetTripHealth", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/trips/{tripID}/health"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetTripHealth"))
	l.DebugContext(ctx, "Get trip health handler invoked")

	tripID, ok := h.tripID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "invalid trip id")
		return
	}

	report, err := h.service.CheckTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "check failed")
		h.writeError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "trip analysed")
	api.WriteJSONResponse(w, r, http.StatusOK, report)
}

// ApplyFix godoc
// @Summary      Apply the quick fix of one issue
// @Description  Applies the fix and saves the trip if it changed. An infeasible fix is reported in the outcome, not as an error.
// @Tags         fixes
// @Produce      json
// @Security     BearerAuth
// @Param        tripID   path      string  true  "Trip ID"
// @Param        issueID  path      string  true  "Issue ID"
// @Success      200      {object}  types.FixResult
// @Failure      400      {object}  map[string]interface{}
// @Failure      401      {object}  map[string]interface{}
// @Failure      404      {object}  map[string]interface{}
// @Router       /trips/{tripID}/fixes/{issueID} [post]
func (h *HandlerImpl) ApplyFix(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "ApplyFix", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/trips/{tripID}/fixes/{issueID}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ApplyFix"))
	l.DebugContext(ctx, "Apply fix handler invoked")

	tripID, ok := h.tripID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "invalid trip id")
		return
	}
	issueID := chi.URLParam(r, "issueID")
	if issueID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "issue ID is required")
		return
	}

	result, err := h.service.ApplyFix(ctx, tripID, issueID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fix failed")
		h.writeError(w, r, l, err)
		return
	}

	l.InfoContext(ctx, "Fix processed",
		slog.String("trip_id", tripID.String()), slog.String("issue_id", issueID), slog.Int("applied", result.Applied))
	span.SetStatus(codes.Ok, "fix processed")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// FixAll godoc
// @Summary      Apply every available quick fix
// @Description  Repeats re-analysis and the most severe fixable issue until none is left or the pass limit is reached.
// @Tags         fixes
// @Produce      json
// @Security     BearerAuth
// @Param        tripID  path      string  true  "Trip ID"
// @Success      200     {object}  types.FixResult
// @Failure      400     {object}  map[string]interface{}
// @Failure      401     {object}  map[string]interface{}
// @Failure      404     {object}  map[string]interface{}
// @Router       /trips/{tripID}/fixes [post]
func (h *HandlerImpl) FixAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "FixAll", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/trips/{tripID}/fixes"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "FixAll"))
	l.DebugContext(ctx, "Fix all handler invoked")

	tripID, ok := h.tripID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "invalid trip id")
		return
	}

	result, err := h.service.FixAll(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fix all failed")
		h.writeError(w, r, l, err)
		return
	}

	l.InfoContext(ctx, "Fixes processed",
		slog.String("trip_id", tripID.String()), slog.Int("attempted", len(result.Outcomes)), slog.Int("applied", result.Applied))
	span.SetStatus(codes.Ok, "fixes processed")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *HandlerImpl) tripID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "tripID")
	id, err := uuid.Parse(raw)
	if err != nil {
		l.WarnContext(r.Context(), "Invalid trip ID format", slog.String("trip_id", raw), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *HandlerImpl) writeError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidTrip):
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, types.ErrTripNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
	case errors.Is(err, types.ErrIssueNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Issue not found, re-run the health check")
	default:
		l.ErrorContext(r.Context(), "Request failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
