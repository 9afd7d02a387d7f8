// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/models"
)

const maxMessageBytes = 1 << 20

// messageEnvelope is the part of every message the router needs. The
// payload keys sit next to "message" and are decoded by ParseCommand.
type messageEnvelope struct {
	Message string `json:"message"`
}

// handleMessage serves POST /api/messages.
//
//	{"message":"get_credentials_for_url","url":"https://github.com/login"}
func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageBytes))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w: %w", service.ErrInvalidInput, ErrInvalidEnvelope, err))
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		h.writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidInput, ErrEmptyBody))
		return
	}

	var envelope messageEnvelope
	if err = json.Unmarshal(body, &envelope); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w: %w", service.ErrInvalidInput, ErrInvalidEnvelope, err))
		return
	}
	if envelope.Message == "" {
		h.writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidInput, ErrMissingMessage))
		return
	}

	cmd, err := service.ParseCommand(envelope.Message, body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := h.services.Dispatcher.Dispatch(r.Context(), cmd)
	if _, err = utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.handleMessage").Msg("error writing response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromRequest(r).Warn().Err(err).Str("func", "*Handler.writeError").Msg("rejected message")

	resp := models.Response{
		Success: false,
		Error:   service.UserMessage(err),
		Code:    service.ErrorCode(err),
	}
	if _, writeErr := utils.WriteJSON(w, resp, statusFromError(err)); writeErr != nil {
		logger.FromRequest(r).Err(writeErr).Str("func", "*Handler.writeError").Msg("error writing response")
	}
}
