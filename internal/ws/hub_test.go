package ws

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amaumene/vidarr/internal/models"
	"github.com/amaumene/vidarr/internal/queue"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func startHub(t *testing.T, snapshot func() []models.QueueEntry) (*Hub, *websocket.Conn) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hub := NewHub(snapshot, logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestSnapshotOnConnect(t *testing.T) {
	entries := []models.QueueEntry{{FormatID: "22", SourceURL: "https://example.com/a", Title: "A"}}
	_, conn := startHub(t, func() []models.QueueEntry { return entries })

	msg := readMessage(t, conn)
	assert.Equal(t, TypeSnapshot, msg.Type)

	var got []models.QueueEntry
	require.NoError(t, json.Unmarshal(msg.Payload, &got))
	assert.Equal(t, entries, got)
}

func TestPublishQueueEvent(t *testing.T) {
	hub, conn := startHub(t, nil)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	entry := models.QueueEntry{FormatID: "140", SourceURL: "https://example.com/b"}
	hub.PublishQueueEvent(queue.Event{Type: queue.EventAdded, Entry: entry, Size: 1})
	hub.PublishQueueEvent(queue.Event{Type: queue.EventRemoved, Entry: entry, Size: 0})

	added := readMessage(t, conn)
	assert.Equal(t, TypeAdded, added.Type)
	var event queue.Event
	require.NoError(t, json.Unmarshal(added.Payload, &event))
	assert.Equal(t, entry, event.Entry)
	assert.Equal(t, 1, event.Size)

	removed := readMessage(t, conn)
	assert.Equal(t, TypeRemoved, removed.Type)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub, conn := startHub(t, nil)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)
}
