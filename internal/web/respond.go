package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/vbonduro/inmuebles/internal/domain"
	"github.com/vbonduro/inmuebles/internal/logging"
)

const maxBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Detail string              `json:"detail"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

type statusResponse struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// readJSON decodes the request body into a T. On failure it writes the error
// response itself and returns false.
func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	err := json.NewDecoder(r.Body).Decode(&v)
	if err == nil {
		return v, true
	}

	var (
		maxErr  *http.MaxBytesError
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		writeValidationError(w, &domain.ValidationError{Fields: []domain.FieldError{{
			Field:   typeErr.Field,
			Rule:    "type",
			Message: "must be of type " + jsonType(typeErr.Type.Kind()),
		}}})
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, "Request body is required")
	default:
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
	}
	return v, false
}

func jsonType(kind reflect.Kind) string {
	switch kind {
	case reflect.Int, reflect.Int64, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return kind.String()
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeValidationError(w http.ResponseWriter, verr *domain.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: verr.Error(), Fields: verr.Fields})
}

// writeServiceError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusInternalServerError, "Database not configured")
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid property id")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Property not found")
	case errors.Is(err, domain.ErrNoFields):
		writeError(w, http.StatusBadRequest, "No fields to update")
	default:
		logging.FromContext(r.Context(), s.logger).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
