package queue

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/amaumene/vidarr/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func bitrate(v float64) *float64 { return &v }

func testCatalog(title string) *models.MediaCatalog {
	return &models.MediaCatalog{
		Title:        title,
		ThumbnailRef: "https://img.example.com/" + title + ".jpg",
		VideoFormats: []models.SourceFormat{
			{FormatID: title + "-720-low", Kind: models.FormatKindVideo, ResolutionP: 720, FrameRate: 30, Container: "mp4", Bitrate: bitrate(5)},
			{FormatID: title + "-720-high", Kind: models.FormatKindVideo, ResolutionP: 720, FrameRate: 30, Container: "mp4", Bitrate: bitrate(8)},
			{FormatID: title + "-1080", Kind: models.FormatKindVideo, ResolutionP: 1080, FrameRate: 30, Container: "webm", Bitrate: bitrate(10)},
		},
		AudioFormats: []models.SourceFormat{
			{FormatID: title + "-audio", Kind: models.FormatKindAudio, Container: "webm"},
		},
	}
}

func TestEnqueueBuildsEntryFromResolution(t *testing.T) {
	m := NewManager(testLogger())

	entry, err := m.Enqueue("https://example.com/a", testCatalog("a"), models.VideoCriteria(720, "mp4"))
	require.NoError(t, err)

	assert.Equal(t, models.QueueEntry{
		FormatID:     "a-720-high",
		SourceURL:    "https://example.com/a",
		Title:        "a",
		ThumbnailRef: "https://img.example.com/a.jpg",
	}, entry)
	assert.Equal(t, []models.QueueEntry{entry}, m.List())
}

func TestEnqueueDuplicateURL(t *testing.T) {
	m := NewManager(testLogger())

	_, err := m.Enqueue("https://example.com/a", testCatalog("a"), models.VideoCriteria(720, "mp4"))
	require.NoError(t, err)

	// Different catalog and criteria, same URL
	_, err = m.Enqueue("https://example.com/a", testCatalog("other"), models.VideoCriteria(1080, "webm"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDuplicateURL))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "a-720-high", m.List()[0].FormatID)
}

func TestEnqueueDuplicateCheckedBeforeResolution(t *testing.T) {
	m := NewManager(testLogger())

	_, err := m.Enqueue("https://example.com/a", testCatalog("a"), models.VideoCriteria(720, "mp4"))
	require.NoError(t, err)

	// Criteria that would fail resolution still report the duplicate
	_, err = m.Enqueue("https://example.com/a", testCatalog("a"), models.AudioCriteria("m4a"))
	assert.True(t, errors.Is(err, models.ErrDuplicateURL))
}

func TestEnqueueFailuresLeaveQueueUnchanged(t *testing.T) {
	m := NewManager(testLogger())
	_, err := m.Enqueue("https://example.com/a", testCatalog("a"), models.VideoCriteria(720, "mp4"))
	require.NoError(t, err)
	before := m.List()

	var events int
	m.OnChange(func(Event) { events++ })

	_, err = m.Enqueue("https://example.com/b", testCatalog("b"), models.AudioCriteria("m4a"))
	assert.True(t, errors.Is(err, models.ErrNoMatchingFormat))

	_, err = m.Enqueue("https://example.com/c", testCatalog("c"), models.SelectionCriteria{ResolutionP: 720})
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = m.Enqueue("   ", testCatalog("d"), models.VideoCriteria(720, "mp4"))
	assert.True(t, errors.As(err, &verr))

	assert.Equal(t, before, m.List())
	assert.Zero(t, events)
	assert.False(t, m.Contains("https://example.com/b"))
}

func TestRemovePreservesOrder(t *testing.T) {
	m := NewManager(testLogger())
	urls := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}
	for i, url := range urls {
		_, err := m.Enqueue(url, testCatalog(fmt.Sprint(i)), models.VideoCriteria(720, "mp4"))
		require.NoError(t, err)
	}

	assert.True(t, m.Remove(urls[1]))

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, urls[0], list[0].SourceURL)
	assert.Equal(t, urls[2], list[1].SourceURL)

	// The URL can be queued again once removed, and goes to the back
	_, err := m.Enqueue(urls[1], testCatalog("again"), models.VideoCriteria(1080, "webm"))
	require.NoError(t, err)
	list = m.List()
	require.Len(t, list, 3)
	assert.Equal(t, urls[1], list[2].SourceURL)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	m := NewManager(testLogger())
	_, err := m.Enqueue("https://example.com/a", testCatalog("a"), models.VideoCriteria(720, "mp4"))
	require.NoError(t, err)
	_, err = m.Enqueue("https://example.com/b", testCatalog("b"), models.AudioCriteria("webm"))
	require.NoError(t, err)
	before := m.List()

	var events int
	m.OnChange(func(Event) { events++ })

	assert.False(t, m.Remove("https://example.com/missing"))
	assert.False(t, m.Remove(""))
	assert.Equal(t, before, m.List())
	assert.Zero(t, events)

	assert.True(t, m.Remove("https://example.com/a"))
	assert.False(t, m.Remove("https://example.com/a"), "second removal is idempotent")
	assert.Equal(t, 1, events)
}

func TestListIsSnapshot(t *testing.T) {
	m := NewManager(testLogger())
	_, err := m.Enqueue("https://example.com/a", testCatalog("a"), models.VideoCriteria(720, "mp4"))
	require.NoError(t, err)

	list := m.List()
	list[0].Title = "mutated"
	assert.Equal(t, "a", m.List()[0].Title)
}

func TestObserversReceiveCommittedEvents(t *testing.T) {
	m := NewManager(testLogger())

	var got []Event
	m.OnChange(func(e Event) {
		// Observers run outside the lock, so reading the queue here must not deadlock
		assert.Equal(t, e.Size, m.Len())
		got = append(got, e)
	})

	_, err := m.Enqueue("https://example.com/a", testCatalog("a"), models.VideoCriteria(720, "mp4"))
	require.NoError(t, err)
	m.Remove("https://example.com/a")

	require.Len(t, got, 2)
	assert.Equal(t, EventAdded, got[0].Type)
	assert.Equal(t, 1, got[0].Size)
	assert.Equal(t, EventRemoved, got[1].Type)
	assert.Equal(t, "https://example.com/a", got[1].Entry.SourceURL)
	assert.Equal(t, 0, got[1].Size)
}

func TestConcurrentEnqueueSameURL(t *testing.T) {
	m := NewManager(testLogger())

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Enqueue("https://example.com/same", testCatalog("same"), models.VideoCriteria(720, "mp4"))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, m.Len())
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	m := NewManager(testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				url := fmt.Sprintf("https://example.com/%d/%d", worker, j)
				if _, err := m.Enqueue(url, testCatalog("c"), models.VideoCriteria(720, "mp4")); err != nil {
					t.Errorf("enqueue %s: %v", url, err)
				}
				if j%2 == 0 {
					m.Remove(url)
				}
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				for _, entry := range m.List() {
					if entry.FormatID == "" {
						t.Errorf("observed partially built entry")
					}
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, m.Len())
}
