package handlers

import (
	"net/http"
	"strings"

	"github.com/amaumene/vidarr/internal/controllers"
	"github.com/amaumene/vidarr/internal/models"
	"github.com/sirupsen/logrus"
)

// QueueHandler serves the download queue
type QueueHandler struct {
	queue  *controllers.QueueController
	logger *logrus.Logger
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queue *controllers.QueueController, logger *logrus.Logger) *QueueHandler {
	return &QueueHandler{
		queue:  queue,
		logger: logger,
	}
}

type enqueueRequest struct {
	SearchID string `json:"search_id"`
	models.SelectionCriteria
}

// RemoveResponse reports whether a DELETE removed a job
type RemoveResponse struct {
	Removed bool `json:"removed"`
}

// Enqueue handles POST /api/queue
func (h *QueueHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if strings.TrimSpace(req.SearchID) == "" {
		writeError(w, models.NewValidationError("search_id", "search_id is required"), h.logger)
		return
	}

	entry, err := h.queue.Enqueue(r.Context(), req.SearchID, req.SelectionCriteria)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// List handles GET /api/queue
func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.queue.List())
}

// Remove handles DELETE /api/queue?url=...
func (h *QueueHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sourceURL := r.URL.Query().Get("url")
	if strings.TrimSpace(sourceURL) == "" {
		writeError(w, models.NewValidationError("url", "url is required"), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, RemoveResponse{Removed: h.queue.Remove(sourceURL)})
}
