package ytdlp

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/amaumene/vidarr/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingInspector struct {
	validations int
	inspections int
	catalog     *models.MediaCatalog
	err         error
}

func (f *countingInspector) ValidateURL(ctx context.Context, sourceURL string) error {
	f.validations++
	return f.err
}

func (f *countingInspector) Inspect(ctx context.Context, sourceURL string) (*models.MediaCatalog, error) {
	f.inspections++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func newTestStore(t *testing.T) *models.CatalogStore {
	t.Helper()
	store, err := models.NewCatalogStore(filepath.Join(t.TempDir(), "catalogs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestCachedInspectorServesRepeatLookups(t *testing.T) {
	next := &countingInspector{catalog: &models.MediaCatalog{
		Title:        "Clip",
		VideoFormats: []models.SourceFormat{{FormatID: "22", Kind: models.FormatKindVideo, ResolutionP: 720, Container: "mp4"}},
	}}
	cached := NewCachedInspector(next, newTestStore(t), time.Hour, quietLogger())
	ctx := context.Background()
	const url = "https://example.com/watch?v=1"

	require.NoError(t, cached.ValidateURL(ctx, url))
	first, err := cached.Inspect(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "Clip", first.Title)

	require.NoError(t, cached.ValidateURL(ctx, url))
	second, err := cached.Inspect(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, next.validations, "cached URLs skip the probe")
	assert.Equal(t, 1, next.inspections)
}

func TestCachedInspectorZeroTTLAlwaysInspects(t *testing.T) {
	next := &countingInspector{catalog: &models.MediaCatalog{Title: "Clip"}}
	store := newTestStore(t)
	cached := NewCachedInspector(next, store, 0, quietLogger())
	ctx := context.Background()

	_, err := cached.Inspect(ctx, "https://example.com/a")
	require.NoError(t, err)
	_, err = cached.Inspect(ctx, "https://example.com/a")
	require.NoError(t, err)

	assert.Equal(t, 2, next.inspections)

	count, err := store.CountCatalogs()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCachedInspectorDoesNotCacheFailures(t *testing.T) {
	next := &countingInspector{err: models.ErrInspectionFailed}
	store := newTestStore(t)
	cached := NewCachedInspector(next, store, time.Hour, quietLogger())

	_, err := cached.Inspect(context.Background(), "https://example.com/a")
	assert.True(t, errors.Is(err, models.ErrInspectionFailed))

	count, err := store.CountCatalogs()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCachedInspectorRejectsMalformedURL(t *testing.T) {
	next := &countingInspector{}
	cached := NewCachedInspector(next, newTestStore(t), time.Hour, quietLogger())

	err := cached.ValidateURL(context.Background(), "ftp://example.com/a")
	assert.True(t, errors.Is(err, models.ErrInvalidURL))
	assert.Zero(t, next.validations)
}
