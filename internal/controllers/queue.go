package controllers

import (
	"context"

	"github.com/amaumene/vidarr/internal/metrics"
	"github.com/amaumene/vidarr/internal/models"
	"github.com/amaumene/vidarr/internal/queue"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// QueueController turns completed searches into queued jobs
type QueueController struct {
	searches *SearchController
	queue    *queue.Manager
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

// NewQueueController creates a new queue controller. m may be nil.
func NewQueueController(searches *SearchController, q *queue.Manager, m *metrics.Metrics, logger *logrus.Logger) *QueueController {
	return &QueueController{
		searches: searches,
		queue:    q,
		metrics:  m,
		logger:   logger,
	}
}

// Enqueue resolves criteria against the catalog of searchID and queues the job
func (c *QueueController) Enqueue(ctx context.Context, searchID string, criteria models.SelectionCriteria) (models.QueueEntry, error) {
	_, span := tracer.Start(ctx, "enqueue")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.id", searchID),
		attribute.Bool("criteria.audio_only", criteria.AudioOnly),
	)

	entry, err := c.enqueue(searchID, criteria)
	if c.metrics != nil {
		c.metrics.RecordEnqueue(err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).WithFields(logrus.Fields{
			"search_id": searchID,
			"kind":      models.Kind(err),
		}).Warn("Enqueue rejected")
		return models.QueueEntry{}, err
	}

	span.SetAttributes(attribute.String("format.id", entry.FormatID))
	return entry, nil
}

func (c *QueueController) enqueue(searchID string, criteria models.SelectionCriteria) (models.QueueEntry, error) {
	session, err := c.searches.Session(searchID)
	if err != nil {
		return models.QueueEntry{}, err
	}
	return c.queue.Enqueue(session.URL, session.Catalog, criteria)
}

// Remove deletes the job for sourceURL, reporting whether one existed
func (c *QueueController) Remove(sourceURL string) bool {
	return c.queue.Remove(sourceURL)
}

// List returns the queued jobs in order
func (c *QueueController) List() []models.QueueEntry {
	return c.queue.List()
}

// Pending returns the jobs awaiting execution, oldest first
func (c *QueueController) Pending() []models.QueueEntry {
	return c.queue.List()
}

// Complete marks the job for sourceURL as downloaded and drops it from the queue
func (c *QueueController) Complete(sourceURL string) bool {
	removed := c.queue.Remove(sourceURL)
	if removed {
		c.logger.WithField("url", sourceURL).Info("Job completed")
	}
	return removed
}

// Len returns the number of queued jobs
func (c *QueueController) Len() int {
	return c.queue.Len()
}
