// Package handlers provides functionality shared by the HTTP handler layers.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lostlink/backend/internal/common"
	"go.uber.org/zap"
)

// Base provides common handler functionality.
type Base struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response.
func (b *Base) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response.
func (b *Base) RespondError(w http.ResponseWriter, status int, message string) {
	b.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError classifies a service error, logs the full chain, and
// sends only the client-facing message.
func (b *Base) RespondServiceError(w http.ResponseWriter, err error) {
	status := common.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		b.Logger.Error("request failed", zap.Error(err))
	}
	b.RespondError(w, status, common.Message(err))
}
