package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"inkwell/internal/common"
	"inkwell/internal/server/models"
)

// envelope is the uniform response shape. Errors carry success=false and a
// message; listings add pagination, total and count.
type envelope struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data,omitempty"`
	Message    string             `json:"message,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Total      *int64             `json:"total,omitempty"`
	Count      *int               `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, e envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(e)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: true, Message: msg})
}

func writeList(w http.ResponseWriter, data any, count int, total int64, p *models.Pagination) {
	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       data,
		Pagination: p,
		Total:      &total,
		Count:      &count,
	})
}

// statusFromError maps the sentinel taxonomy onto HTTP status codes.
// Anything unrecognized is a server error.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "not allowed"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, "already exists"
	default:
		return http.StatusInternalServerError, "server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, msg := statusFromError(err)
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

func writeValidation(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: msg})
}
