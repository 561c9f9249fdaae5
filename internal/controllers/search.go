package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/amaumene/vidarr/internal/metrics"
	"github.com/amaumene/vidarr/internal/models"
	"github.com/amaumene/vidarr/internal/services/ytdlp"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/amaumene/vidarr/internal/controllers")

var (
	// ErrSuperseded is returned for a search whose client started a newer one
	ErrSuperseded = errors.New("search superseded by a newer request")
	// ErrSessionNotFound is returned when a search id is unknown or expired
	ErrSessionNotFound = errors.New("search not found or expired")
)

// Session is a completed search that can be queued from
type Session struct {
	ID        string               `json:"search_id"`
	URL       string               `json:"url"`
	Catalog   *models.MediaCatalog `json:"catalog"`
	CreatedAt time.Time            `json:"created_at"`
}

// SearchController inspects URLs and keeps the latest result per client
type SearchController struct {
	inspector ytdlp.Inspector
	sessions  *cache.Cache // search id -> *Session
	latest    *cache.Cache // client id -> search id
	mu        sync.Mutex   // orders the latest check against session writes
	metrics   *metrics.Metrics
	logger    *logrus.Logger
}

// NewSearchController creates a search controller whose sessions live for ttl. m may be nil.
func NewSearchController(inspector ytdlp.Inspector, ttl time.Duration, m *metrics.Metrics, logger *logrus.Logger) *SearchController {
	return &SearchController{
		inspector: inspector,
		sessions:  cache.New(ttl, 2*ttl),
		latest:    cache.New(ttl, 2*ttl),
		metrics:   m,
		logger:    logger,
	}
}

// Search validates and inspects sourceURL on behalf of clientID.
// If clientID starts another search before this one completes, this result is
// discarded and ErrSuperseded is returned.
func (c *SearchController) Search(ctx context.Context, clientID, sourceURL string) (*Session, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	searchID := uuid.NewString()

	ctx, span := tracer.Start(ctx, "search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.id", searchID),
		attribute.String("search.url", sourceURL),
	)

	c.latest.SetDefault(clientID, searchID)

	c.logger.WithFields(logrus.Fields{
		"search_id": searchID,
		"client_id": clientID,
		"url":       sourceURL,
	}).Info("Starting search")

	start := time.Now()
	catalog, err := c.inspect(ctx, sourceURL)

	session := &Session{
		ID:        searchID,
		URL:       sourceURL,
		Catalog:   catalog,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	superseded := !c.isLatest(clientID, searchID)
	if err == nil && !superseded {
		c.sessions.SetDefault(searchID, session)
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordSearch(metrics.SearchOutcome(err, superseded), time.Since(start).Seconds())
	}

	if superseded {
		span.SetAttributes(attribute.Bool("search.superseded", true))
		c.logger.WithField("search_id", searchID).Info("Discarding superseded search result")
		return nil, ErrSuperseded
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).WithField("search_id", searchID).Warn("Search failed")
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"search_id":     searchID,
		"title":         catalog.Title,
		"video_formats": len(catalog.VideoFormats),
		"audio_formats": len(catalog.AudioFormats),
	}).Info("Search completed")

	return session, nil
}

func (c *SearchController) inspect(ctx context.Context, sourceURL string) (*models.MediaCatalog, error) {
	if err := c.inspector.ValidateURL(ctx, sourceURL); err != nil {
		return nil, err
	}
	catalog, err := c.inspector.Inspect(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: empty response", models.ErrInspectionFailed)
	}
	return catalog, nil
}

func (c *SearchController) isLatest(clientID, searchID string) bool {
	current, ok := c.latest.Get(clientID)
	return ok && current.(string) == searchID
}

// Session returns a stored search by id
func (c *SearchController) Session(searchID string) (*Session, error) {
	value, ok := c.sessions.Get(searchID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, searchID)
	}
	return value.(*Session), nil
}

// ActiveSessions returns the number of unexpired searches
func (c *SearchController) ActiveSessions() int {
	return c.sessions.ItemCount()
}

// PruneSessions drops expired searches ahead of the cache janitor
func (c *SearchController) PruneSessions() {
	c.sessions.DeleteExpired()
	c.latest.DeleteExpired()
}
