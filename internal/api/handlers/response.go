package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/auth"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// response is the envelope of every JSON answer.
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Total   *int        `json:"total,omitempty"`
	Message string      `json:"message,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, response{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, r *http.Request, data interface{}, total int) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{Success: true, Data: data, Total: &total})
}

func writeFailure(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{
		Error:   code,
		Code:    status,
		Message: message,
	})
}

// writeError maps domain errors to statuses. Server side failures are logged
// and their details are not exposed.
func writeError(w http.ResponseWriter, r *http.Request, logger interfaces.LoggerPort, err error, message string) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		writeFailure(w, r, http.StatusNotFound, "not_found", err.Error())
	case services.IsClientError(err):
		writeFailure(w, r, http.StatusBadRequest, "bad_request", err.Error())
	default:
		logger.ErrorWithContext(r.Context(), message, interfaces.LogField{Key: "error", Value: err.Error()})
		writeFailure(w, r, http.StatusInternalServerError, "internal_error", message)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty: %w", utils.ErrParameterMissing)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %s: %w", err.Error(), utils.ErrValidation)
	}
	return nil
}

func pathID(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("%s: %w", name, utils.ErrParameterMissing)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q is not a valid id: %w", name, raw, utils.ErrValidation)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func userID(r *http.Request) string {
	if principal, ok := auth.PrincipalFromContext(r.Context()); ok {
		if principal.Username != "" {
			return principal.Username
		}
		return principal.UserID
	}
	return ""
}

func resourceLocation(r *http.Request, id int) string {
	return strings.TrimSuffix(r.URL.Path, "/") + "/" + strconv.Itoa(id)
}
