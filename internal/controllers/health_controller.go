package controllers

import (
	"context"
	"fmt"
	"net/http"
	"questlog/internal/cloud"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/services"
	"time"
)

const healthProbeTimeout = 2 * time.Second

type HealthController struct {
	startTime time.Time
	describe  func(ctx context.Context, resp *healthResponse) error
}

type healthResponse struct {
	Status        string                 `json:"status"`
	Role          string                 `json:"role"`
	Uptime        string                 `json:"uptime"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	Games         *int                   `json:"games,omitempty"`
	Sync          *interfaces.SyncStatus `json:"sync,omitempty"`
	Error         string                 `json:"error,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	status := http.StatusOK
	if err := hc.describe(ctx, &resp); err != nil {
		status = http.StatusServiceUnavailable
		resp.Status = "unavailable"
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

// NewDeviceHealthController reports library size and sync state. A device
// is healthy while offline.
func NewDeviceHealthController(library services.LibraryServiceInterface) *HealthController {
	return &HealthController{
		startTime: time.Now(),
		describe: func(_ context.Context, resp *healthResponse) error {
			games := len(library.State().Library)
			sync := library.SyncStatus()
			resp.Role = "device"
			resp.Games = &games
			resp.Sync = &sync
			return nil
		},
	}
}

// NewCloudHealthController fails while the storage backend is unreachable.
func NewCloudHealthController(backend cloud.Backend) *HealthController {
	return &HealthController{
		startTime: time.Now(),
		describe: func(ctx context.Context, resp *healthResponse) error {
			resp.Role = "cloud"
			return backend.Ping(ctx)
		},
	}
}
