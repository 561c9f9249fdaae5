package handlers

import (
	"net/http"
	"strings"

	"github.com/amaumene/vidarr/internal/controllers"
	"github.com/amaumene/vidarr/internal/models"
	"github.com/sirupsen/logrus"
)

// CompletionPayload is sent by the download worker when a job finishes
type CompletionPayload struct {
	URL    string `json:"url"`
	Status string `json:"status"` // "completed" or "failed"
	Error  string `json:"error,omitempty"`
}

// WebhookHandler handles download worker callbacks
type WebhookHandler struct {
	queue  *controllers.QueueController
	logger *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(queue *controllers.QueueController, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		queue:  queue,
		logger: logger,
	}
}

// ServeHTTP handles the webhook endpoint
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload CompletionPayload
	if err := decodeBody(w, r, &payload); err != nil {
		h.logger.WithError(err).Error("Failed to decode webhook payload")
		writeError(w, err, h.logger)
		return
	}
	if strings.TrimSpace(payload.URL) == "" {
		writeError(w, models.NewValidationError("url", "url is required"), h.logger)
		return
	}

	switch payload.Status {
	case "completed":
		removed := h.queue.Complete(payload.URL)
		if !removed {
			h.logger.WithField("url", payload.URL).Warn("Completion received for a job that is not queued")
		}
		writeJSON(w, http.StatusOK, RemoveResponse{Removed: removed})
	case "failed":
		// Failed jobs stay queued so the user can retry or remove them
		h.logger.WithFields(logrus.Fields{
			"url":   payload.URL,
			"error": payload.Error,
		}).Error("Download failed")
		writeJSON(w, http.StatusOK, RemoveResponse{Removed: false})
	default:
		writeError(w, models.NewValidationError("status", "status must be completed or failed"), h.logger)
	}
}
