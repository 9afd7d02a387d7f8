package http

import (
	"net/http"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/utils"
)

// getStatus serves GET /api/status. The session status already carries the
// last sync outcome.
func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	status := h.services.SessionService.Status(r.Context())

	if _, err := utils.WriteJSON(w, status, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.getStatus").Msg("error writing response")
	}
}
