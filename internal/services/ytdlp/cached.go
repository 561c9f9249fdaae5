package ytdlp

import (
	"context"
	"time"

	"github.com/amaumene/vidarr/internal/models"
	"github.com/sirupsen/logrus"
)

// CatalogCache stores inspection results by URL
type CatalogCache interface {
	GetCatalog(url string, maxAge time.Duration) (*models.MediaCatalog, bool, error)
	PutCatalog(url string, catalog *models.MediaCatalog) error
}

// CachedInspector serves fresh catalogs from a CatalogCache before asking the wrapped inspector
type CachedInspector struct {
	next   Inspector
	cache  CatalogCache
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCachedInspector wraps next with cache. A ttl of zero disables lookups,
// but fresh catalogs are still written.
func NewCachedInspector(next Inspector, cache CatalogCache, ttl time.Duration, logger *logrus.Logger) *CachedInspector {
	return &CachedInspector{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// ValidateURL skips the probe when the URL has a fresh cached catalog
func (c *CachedInspector) ValidateURL(ctx context.Context, sourceURL string) error {
	if err := CheckURL(sourceURL); err != nil {
		return err
	}
	if _, ok := c.lookup(sourceURL); ok {
		return nil
	}
	return c.next.ValidateURL(ctx, sourceURL)
}

// Inspect returns the cached catalog when fresh, otherwise inspects and stores the result
func (c *CachedInspector) Inspect(ctx context.Context, sourceURL string) (*models.MediaCatalog, error) {
	if catalog, ok := c.lookup(sourceURL); ok {
		c.logger.WithField("url", sourceURL).Debug("Catalog served from cache")
		return catalog, nil
	}

	catalog, err := c.next.Inspect(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	if err := c.cache.PutCatalog(sourceURL, catalog); err != nil {
		// The inspection itself succeeded
		c.logger.WithError(err).WithField("url", sourceURL).Warn("Failed to cache catalog")
	}

	return catalog, nil
}

func (c *CachedInspector) lookup(sourceURL string) (*models.MediaCatalog, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	catalog, ok, err := c.cache.GetCatalog(sourceURL, c.ttl)
	if err != nil {
		c.logger.WithError(err).WithField("url", sourceURL).Warn("Failed to read catalog cache")
		return nil, false
	}
	return catalog, ok
}
