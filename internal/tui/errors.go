// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/MKhiriev/go-pass-vault/internal/app"
	"github.com/MKhiriev/go-pass-vault/models"
)

// responseError returns the user-facing message of a failed response, or
// an empty string on success.
func responseError(resp models.Response) string {
	if resp.Success {
		return ""
	}
	if resp.Error != "" {
		return resp.Error
	}
	return app.MsgInternalError
}
