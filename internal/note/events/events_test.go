package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/dh-notes/internal/common/jwtverify"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(logger.NewWithWriter(io.Discard, "test", "error"))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func withClaims(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := jwtverify.WithClaims(r.Context(), jwtverify.Claims{Subject: "alice", Roles: []string{"ROLE_USER"}})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func dial(t *testing.T, srv *httptest.Server) *gorillaWS.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := gorillaWS.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func readMessage(t *testing.T, conn *gorillaWS.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHub_BroadcastsToAllSubscribers(t *testing.T) {
	hub := startHub(t)
	log := logger.NewWithWriter(io.Discard, "test", "error")
	srv := httptest.NewServer(withClaims(NewHandler(hub, log)))
	defer srv.Close()

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	waitForClients(t, hub, 2)

	created := time.Date(2024, 7, 1, 10, 30, 0, 0, time.UTC)
	note := domain.NewNote("title", "body").WithID(5).WithCreatedAt(created)
	hub.Publish(domain.Event{Type: domain.EventCreated, ID: note.ID, Note: &note})

	for _, conn := range []*gorillaWS.Conn{c1, c2} {
		msg := readMessage(t, conn)
		assert.Equal(t, "created", msg.Type)
		assert.Equal(t, int64(5), msg.ID)
		require.NotNil(t, msg.Note)
		assert.Equal(t, "title", msg.Note.Title)
		assert.Equal(t, "2024-07-01 10:30:00", msg.Note.CreatedAt)
		assert.Nil(t, msg.Note.UpdatedAt)
	}
}

func TestHub_DeleteEventHasNoNote(t *testing.T) {
	hub := startHub(t)
	srv := httptest.NewServer(withClaims(NewHandler(hub, logger.NewWithWriter(io.Discard, "test", "error"))))
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	hub.Publish(domain.Event{Type: domain.EventDeleted, ID: 9})

	msg := readMessage(t, conn)
	assert.Equal(t, "deleted", msg.Type)
	assert.Equal(t, int64(9), msg.ID)
	assert.Nil(t, msg.Note)
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub := startHub(t)
	srv := httptest.NewServer(withClaims(NewHandler(hub, logger.NewWithWriter(io.Discard, "test", "error"))))
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestHub_ShutdownClosesSubscribers(t *testing.T) {
	hub := NewHub(logger.NewWithWriter(io.Discard, "test", "error"))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(withClaims(NewHandler(hub, logger.NewWithWriter(io.Discard, "test", "error"))))
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, gorillaWS.IsCloseError(err, gorillaWS.CloseNormalClosure))
}

func TestHandler_RequiresClaims(t *testing.T) {
	hub := startHub(t)
	srv := httptest.NewServer(NewHandler(hub, logger.NewWithWriter(io.Discard, "test", "error")))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := gorillaWS.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPublish_WithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := startHub(t)
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.Publish(domain.Event{Type: domain.EventDeleted, ID: domain.ID(i + 1)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked")
	}
}

func TestSameOrigin(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://notes.local/api/notes/stream", nil)
	assert.True(t, sameOrigin(r))

	r.Header.Set("Origin", "http://notes.local")
	assert.True(t, sameOrigin(r))

	r.Header.Set("Origin", "https://evil.example")
	assert.False(t, sameOrigin(r))
}
