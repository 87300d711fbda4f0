package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// maxBodyBytes bounds request bodies; a month-long trip fits comfortably.
const maxBodyBytes = 4 << 20

// ErrorBody is the JSON shape of every error returned by the API.
type ErrorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

// ErrorResponse writes an ErrorBody carrying the chi request ID.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSONResponse(w, r, status, ErrorBody{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// WriteJSONResponse writes data as JSON with the given status. 204 has no body.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	l := slog.With(slog.String("request_id", middleware.GetReqID(r.Context())))
	body, err := json.Marshal(data)
	if err != nil {
		l.ErrorContext(r.Context(), "Failed to marshal JSON response", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		l.ErrorContext(r.Context(), "Failed to write response body", slog.Any("error", err))
	}
}

// DecodeJSONBody decodes exactly one JSON value from the request body into
// dst. Unknown fields are rejected. The returned error is safe to show to
// the client.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func decodeError(err error) error {
	var (
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		invalidErr *json.InvalidUnmarshalError
		sizeErr    *http.MaxBytesError
	)
	const unknownField = "json: unknown field "

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Errorf("body contains incorrect JSON type for field %q (wanted %s)", typeErr.Field, typeErr.Type)
	case errors.As(err, &typeErr):
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", typeErr.Offset)
	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")
	case strings.HasPrefix(err.Error(), unknownField):
		return fmt.Errorf("body contains unknown key %s", strings.TrimPrefix(err.Error(), unknownField))
	case errors.As(err, &sizeErr):
		return fmt.Errorf("body must not be larger than %d bytes", sizeErr.Limit)
	case errors.As(err, &invalidErr):
		panic(fmt.Errorf("invalid argument passed to json decoder: %w", err))
	default:
		return fmt.Errorf("error decoding JSON body: %w", err)
	}
}

// VerifyAudience reports whether expected is among the token audiences. An
// empty expectation accepts any token.
func VerifyAudience(audiences jwt.ClaimStrings, expected string) bool {
	if expected == "" {
		return true
	}
	for _, aud := range audiences {
		if aud == expected {
			return true
		}
	}
	return false
}
