package controllers

import (
	"errors"
	"io"
	"net/http"
	"questlog/internal/cloud"
	"questlog/internal/models"
	"questlog/internal/services"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, gson)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// decodeBody reads a JSON request body of at most maxRequestBodySize bytes.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.ErrTooLarge
		}
		return errors.Join(services.ErrInvalidInput, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Join(services.ErrInvalidInput, err)
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidDeviceID),
		errors.Is(err, models.ErrInvalidDocument),
		errors.Is(err, models.ErrDuplicateID):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrGameNotFound),
		errors.Is(err, models.ErrSaveNotFound),
		errors.Is(err, models.ErrUnknownEntry),
		errors.Is(err, cloud.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoActiveSession),
		errors.Is(err, models.ErrSessionActive),
		errors.Is(err, models.ErrSessionPaused),
		errors.Is(err, models.ErrSessionNotPaused),
		errors.Is(err, models.ErrSessionClosed),
		errors.Is(err, models.ErrWrongFamily):
		return http.StatusConflict
	case errors.Is(err, services.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrLinkFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
