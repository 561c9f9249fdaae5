package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// CachedCatalog is a stored inspection result keyed by source URL
type CachedCatalog struct {
	URL      string `boltholdKey:"URL"`
	Catalog  MediaCatalog
	CachedAt time.Time
}

// CatalogStore wraps the bolthold store holding inspection results.
// It never holds queue state; the queue lives in memory only.
type CatalogStore struct {
	store *bolthold.Store
}

// NewCatalogStore opens (or creates) the catalog database at path
func NewCatalogStore(path string) (*CatalogStore, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}

	return &CatalogStore{store: store}, nil
}

// Close closes the database connection
func (s *CatalogStore) Close() error {
	return s.store.Close()
}

// PutCatalog stores (or replaces) the catalog for url
func (s *CatalogStore) PutCatalog(url string, catalog *MediaCatalog) error {
	if catalog == nil {
		return fmt.Errorf("nil catalog for %s", url)
	}
	record := &CachedCatalog{
		URL:      url,
		Catalog:  *catalog,
		CachedAt: time.Now(),
	}
	return s.store.Upsert(url, record)
}

// GetCatalog returns the catalog for url if it was stored less than maxAge ago.
// A maxAge of zero or less disables the age check.
func (s *CatalogStore) GetCatalog(url string, maxAge time.Duration) (*MediaCatalog, bool, error) {
	var record CachedCatalog
	err := s.store.Get(url, &record)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if maxAge > 0 && time.Since(record.CachedAt) > maxAge {
		return nil, false, nil
	}

	catalog := record.Catalog
	return &catalog, true, nil
}

// DeleteCatalog removes the stored catalog for url, if any
func (s *CatalogStore) DeleteCatalog(url string) error {
	err := s.store.Delete(url, &CachedCatalog{})
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil
	}
	return err
}

// PruneCatalogs deletes every catalog stored before cutoff and returns how many were removed
func (s *CatalogStore) PruneCatalogs(cutoff time.Time) (int, error) {
	var records []*CachedCatalog
	err := s.store.Find(&records, bolthold.Where("CachedAt").Lt(cutoff))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, record := range records {
		if err := s.store.Delete(record.URL, &CachedCatalog{}); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// CountCatalogs returns the number of stored catalogs
func (s *CatalogStore) CountCatalogs() (int, error) {
	var records []*CachedCatalog
	if err := s.store.Find(&records, nil); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Ping checks that the database can still serve reads
func (s *CatalogStore) Ping() error {
	return s.store.Bolt().View(func(tx *bbolt.Tx) error {
		return nil
	})
}
