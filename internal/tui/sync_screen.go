package tui

import (
	"github.com/MKhiriev/go-pass-vault/models"
)

const syncTimeLayout = "15:04:05"

// syncStatusLine renders the latest sync notification, or nothing before
// the first one arrives.
func syncStatusLine(status *models.SyncStatus) string {
	if status == nil {
		return ""
	}

	line := status.At.Local().Format(syncTimeLayout) + " " + status.Status
	if status.Error {
		return errorStyle.Render(line)
	}
	return okStyle.Render(line)
}
