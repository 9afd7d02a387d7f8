package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-pass-vault/internal/service"
)

// errorStatusMap covers failures detected before a command is dispatched.
// Dispatched commands always answer 200: the outcome is in the Response.
var errorStatusMap = map[error]int{
	ErrEmptyBody:       http.StatusBadRequest,
	ErrInvalidEnvelope: http.StatusBadRequest,
	ErrMissingMessage:  http.StatusBadRequest,

	service.ErrInvalidInput:   http.StatusBadRequest,
	service.ErrUnknownCommand: http.StatusNotFound,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
