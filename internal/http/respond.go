package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kadeksinduarta/selat-frontend/internal/api"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Details  string `json:"details,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleRemoteError converts a failure of the remote API into a response.
// Client errors keep their status and message; everything else is a 502.
func handleRemoteError(w http.ResponseWriter, err error) {
	var apiErr *api.Error
	switch {
	case errors.Is(err, api.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, api.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
		respondError(w, apiErr.Status, "rejected", apiErr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "remote service timed out")
	default:
		logrus.WithError(err).Error("remote api call failed")
		respondError(w, http.StatusBadGateway, "upstream_error", "remote service unavailable")
	}
}

// safeRedirect only allows local paths.
func safeRedirect(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
