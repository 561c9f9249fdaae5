// Package queue owns the ordered, deduplicated collection of accepted download jobs.
package queue

import (
	"fmt"
	"strings"
	"sync"

	"github.com/amaumene/vidarr/internal/models"
	"github.com/amaumene/vidarr/internal/resolver"
	"github.com/sirupsen/logrus"
)

// EventType identifies a committed queue mutation
type EventType string

const (
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
)

// Event is delivered to observers after a mutation commits
type Event struct {
	Type  EventType         `json:"type"`
	Entry models.QueueEntry `json:"entry"`
	Size  int               `json:"size"` // queue length right after the mutation
}

// Manager holds the queue. Mutations are serialized; List returns a copy,
// so readers never see a half-applied change.
type Manager struct {
	mu      sync.RWMutex
	entries []models.QueueEntry
	byURL   map[string]struct{}

	observersMu sync.RWMutex
	observers   []func(Event)

	logger *logrus.Logger
}

// NewManager creates an empty queue
func NewManager(logger *logrus.Logger) *Manager {
	return &Manager{
		byURL:  make(map[string]struct{}),
		logger: logger,
	}
}

// OnChange registers fn to be called after every committed mutation.
// Observers run synchronously on the mutating goroutine, outside the queue lock.
func (m *Manager) OnChange(fn func(Event)) {
	m.observersMu.Lock()
	defer m.observersMu.Unlock()
	m.observers = append(m.observers, fn)
}

// Enqueue resolves criteria against catalog and appends the resulting job.
// Duplicates are rejected before resolution. On any error the queue is unchanged.
func (m *Manager) Enqueue(sourceURL string, catalog *models.MediaCatalog, criteria models.SelectionCriteria) (models.QueueEntry, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return models.QueueEntry{}, models.NewValidationError("url", "url is required")
	}

	if m.Contains(sourceURL) {
		return models.QueueEntry{}, fmt.Errorf("%w: %s", models.ErrDuplicateURL, sourceURL)
	}

	format, err := resolver.Resolve(catalog, criteria)
	if err != nil {
		m.logger.WithError(err).WithField("url", sourceURL).Debug("Format resolution failed")
		return models.QueueEntry{}, err
	}

	entry := models.QueueEntry{
		FormatID:     format.FormatID,
		SourceURL:    sourceURL,
		Title:        catalog.Title,
		ThumbnailRef: catalog.ThumbnailRef,
	}

	m.mu.Lock()
	// Another enqueue for the same URL may have committed while we were resolving
	if _, exists := m.byURL[sourceURL]; exists {
		m.mu.Unlock()
		return models.QueueEntry{}, fmt.Errorf("%w: %s", models.ErrDuplicateURL, sourceURL)
	}
	m.entries = append(m.entries, entry)
	m.byURL[sourceURL] = struct{}{}
	size := len(m.entries)
	m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"url":       sourceURL,
		"format_id": entry.FormatID,
		"title":     entry.Title,
		"size":      size,
	}).Info("Job queued")

	m.notify(Event{Type: EventAdded, Entry: entry, Size: size})
	return entry, nil
}

// Remove deletes the job for sourceURL and reports whether one was removed.
// Removing an absent URL is not an error. Remaining jobs keep their order.
func (m *Manager) Remove(sourceURL string) bool {
	sourceURL = strings.TrimSpace(sourceURL)

	m.mu.Lock()
	if _, exists := m.byURL[sourceURL]; !exists {
		m.mu.Unlock()
		return false
	}

	var removed models.QueueEntry
	kept := make([]models.QueueEntry, 0, len(m.entries)-1)
	for _, entry := range m.entries {
		if entry.SourceURL == sourceURL {
			removed = entry
			continue
		}
		kept = append(kept, entry)
	}
	m.entries = kept
	delete(m.byURL, sourceURL)
	size := len(m.entries)
	m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"url":  sourceURL,
		"size": size,
	}).Info("Job removed from queue")

	m.notify(Event{Type: EventRemoved, Entry: removed, Size: size})
	return true
}

// List returns a snapshot of the queue in insertion order
func (m *Manager) List() []models.QueueEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make([]models.QueueEntry, len(m.entries))
	copy(snapshot, m.entries)
	return snapshot
}

// Contains reports whether a job for sourceURL is queued
func (m *Manager) Contains(sourceURL string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.byURL[strings.TrimSpace(sourceURL)]
	return exists
}

// Len returns the number of queued jobs
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Manager) notify(event Event) {
	m.observersMu.RLock()
	observers := make([]func(Event), len(m.observers))
	copy(observers, m.observers)
	m.observersMu.RUnlock()

	for _, fn := range observers {
		fn(event)
	}
}
