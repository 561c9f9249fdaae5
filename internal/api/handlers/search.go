package handlers

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/amaumene/vidarr/internal/controllers"
	"github.com/amaumene/vidarr/internal/models"
	"github.com/amaumene/vidarr/internal/resolver"
	"github.com/amaumene/vidarr/internal/utils"
	"github.com/sirupsen/logrus"
)

// ClientIDHeader identifies a browser tab across searches
const ClientIDHeader = "X-Client-ID"

// SearchHandler serves URL inspection and option lookups
type SearchHandler struct {
	searches *controllers.SearchController
	logger   *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searches *controllers.SearchController, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		searches: searches,
		logger:   logger,
	}
}

type searchRequest struct {
	URL string `json:"url"`
}

// SearchOptions lists the first choices of the selection form
type SearchOptions struct {
	Resolutions     []int    `json:"resolutions"`
	AudioContainers []string `json:"audio_containers"`
}

// SearchResponse is a completed search
type SearchResponse struct {
	SearchID     string                `json:"search_id"`
	URL          string                `json:"url"`
	Title        string                `json:"title"`
	Duration     int                   `json:"duration"`
	DurationText string                `json:"duration_text"`
	Thumbnail    string                `json:"thumbnail"`
	VideoFormats []models.SourceFormat `json:"video_formats"`
	AudioFormats []models.SourceFormat `json:"audio_formats"`
	Options      SearchOptions         `json:"options"`
}

// OptionsResponse lists the choices left once a resolution and container are picked
type OptionsResponse struct {
	Resolutions     []int    `json:"resolutions"`
	Containers      []string `json:"containers"`
	FrameRates      []int    `json:"frame_rates"`
	AudioContainers []string `json:"audio_containers"`
}

// Search handles POST /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, models.NewValidationError("url", "url is required"), h.logger)
		return
	}

	session, err := h.searches.Search(r.Context(), clientID(r), req.URL)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	catalog := session.Catalog
	writeJSON(w, http.StatusOK, SearchResponse{
		SearchID:     session.ID,
		URL:          session.URL,
		Title:        catalog.Title,
		Duration:     catalog.DurationSeconds,
		DurationText: utils.FormatDuration(catalog.DurationSeconds),
		Thumbnail:    catalog.ThumbnailRef,
		VideoFormats: nonNil(catalog.VideoFormats),
		AudioFormats: nonNil(catalog.AudioFormats),
		Options: SearchOptions{
			Resolutions:     resolver.Resolutions(catalog),
			AudioContainers: resolver.AudioContainers(catalog),
		},
	})
}

// Options handles GET /api/search/{id}/options
func (h *SearchHandler) Options(w http.ResponseWriter, r *http.Request) {
	session, err := h.searches.Session(r.PathValue("id"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	resolutionP := 0
	if raw := r.URL.Query().Get("resolution"); raw != "" {
		resolutionP, err = strconv.Atoi(raw)
		if err != nil || resolutionP < 0 {
			writeError(w, models.NewValidationError("resolution", "resolution must be a positive number"), h.logger)
			return
		}
	}
	container := r.URL.Query().Get("container")

	catalog := session.Catalog
	writeJSON(w, http.StatusOK, OptionsResponse{
		Resolutions:     resolver.Resolutions(catalog),
		Containers:      resolver.Containers(catalog, resolutionP),
		FrameRates:      resolver.FrameRates(catalog, resolutionP, container),
		AudioContainers: resolver.AudioContainers(catalog),
	})
}

// clientID falls back to the caller's address when the header is absent
func clientID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(ClientIDHeader)); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func nonNil(formats []models.SourceFormat) []models.SourceFormat {
	if formats == nil {
		return []models.SourceFormat{}
	}
	return formats
}
