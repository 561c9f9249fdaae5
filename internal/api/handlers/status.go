package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/amaumene/vidarr/internal/utils"
	"github.com/sirupsen/logrus"
)

// StatusSource supplies the live counters reported by /status
type StatusSource interface {
	QueueLength() int
	ActiveSearches() int
	WebsocketClients() int
}

// StatusHandler handles status requests
type StatusHandler struct {
	source  StatusSource
	started time.Time
	logger  *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(source StatusSource, started time.Time, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		source:  source,
		started: started,
		logger:  logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	QueueLength      int    `json:"queue_length"`
	ActiveSearches   int    `json:"active_searches"`
	WebsocketClients int    `json:"websocket_clients"`
	UptimeSeconds    int    `json:"uptime_seconds"`
	Uptime           string `json:"uptime"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := int(time.Since(h.started).Seconds())
	response := StatusResponse{
		QueueLength:      h.source.QueueLength(),
		ActiveSearches:   h.source.ActiveSearches(),
		WebsocketClients: h.source.WebsocketClients(),
		UptimeSeconds:    uptime,
		Uptime:           utils.FormatDuration(uptime),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
