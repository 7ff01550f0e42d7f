package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventpass/internal/domain"
	"eventpass/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStream serves one stream request until publish returns and the stream has drained.
func runStream(t *testing.T, hub *events.Hub, req *http.Request, publish func()) *httptest.ResponseRecorder {
	t.Helper()
	c := NewStreamController(testLogger(), hub)
	c.keepalive = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Stream(rr, req)
	}()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	publish()
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done
	return rr
}

func TestStreamController_Stream(t *testing.T) {
	hub := events.NewHub()
	req := httptest.NewRequest(http.MethodGet, "/admin/events/stream", nil)

	rr := runStream(t, hub, req, func() {
		require.NoError(t, hub.Publish(context.Background(), domain.TopicRegistrationCreated, domain.RegistrationChanged{ID: "r1"}))
	})

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, "id:1\n")
	assert.Contains(t, body, "event:"+domain.TopicRegistrationCreated+"\n")
	assert.Contains(t, body, `data:{"id":"r1"}`)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestStreamController_TopicFilter(t *testing.T) {
	hub := events.NewHub()
	req := httptest.NewRequest(http.MethodGet, "/admin/events/stream?topics=eventpass.notifications.>", nil)

	rr := runStream(t, hub, req, func() {
		hub.Broadcast(domain.TopicRegistrationCreated, []byte(`{"id":"r1"}`))
		hub.Broadcast(domain.TopicNotificationCreated, []byte(`{"id":"n1"}`))
	})

	body := rr.Body.String()
	assert.NotContains(t, body, domain.TopicRegistrationCreated)
	assert.Contains(t, body, domain.TopicNotificationCreated)
}

func TestStreamController_LastEventID(t *testing.T) {
	hub := events.NewHub()
	hub.Broadcast(domain.TopicRegistrationCreated, []byte(`{"n":1}`))
	hub.Broadcast(domain.TopicRegistrationUpdated, []byte(`{"n":2}`))
	hub.Broadcast(domain.TopicRegistrationDeleted, []byte(`{"n":3}`))

	req := httptest.NewRequest(http.MethodGet, "/admin/events/stream", nil)
	req.Header.Set("Last-Event-ID", "1")
	rr := runStream(t, hub, req, func() {})

	body := rr.Body.String()
	assert.NotContains(t, body, `data:{"n":1}`)
	assert.Contains(t, body, `data:{"n":2}`)
	assert.Contains(t, body, `data:{"n":3}`)
	assert.Less(t, strings.Index(body, `{"n":2}`), strings.Index(body, `{"n":3}`))
}

func TestStreamController_Keepalive(t *testing.T) {
	hub := events.NewHub()
	c := NewStreamController(testLogger(), hub)
	c.keepalive = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	rr := httptest.NewRecorder()
	c.Stream(rr, httptest.NewRequest(http.MethodGet, "/admin/events/stream", nil).WithContext(ctx))

	assert.Contains(t, rr.Body.String(), ":keepalive\n\n")
}

func TestStreamController_ReplayOverlapWrittenOnce(t *testing.T) {
	hub := events.NewHub()
	hub.Broadcast(domain.TopicRegistrationCreated, []byte(`{"n":1}`))
	c := NewStreamController(testLogger(), hub)
	c.keepalive = time.Hour

	client := hub.Subscribe(nil)
	defer hub.Unsubscribe(client)
	// lands both in the ring buffer and on the client channel
	hub.Broadcast(domain.TopicRegistrationUpdated, []byte(`{"n":2}`))

	rr := httptest.NewRecorder()
	replayed := c.replay(rr, client, "1")
	assert.Equal(t, uint64(2), replayed)

	hub.Broadcast(domain.TopicRegistrationDeleted, []byte(`{"n":3}`))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	c.pump(ctx, rr, http.NewResponseController(rr), client, replayed)

	body := rr.Body.String()
	assert.NotContains(t, body, `{"n":1}`)
	assert.Equal(t, 1, strings.Count(body, "id:2\n"))
	assert.Equal(t, 1, strings.Count(body, "id:3\n"))
}

func TestStreamController_ReplayIgnoresBadLastEventID(t *testing.T) {
	hub := events.NewHub()
	hub.Broadcast(domain.TopicRegistrationCreated, []byte(`{"n":1}`))
	c := NewStreamController(testLogger(), hub)
	client := hub.Subscribe(nil)
	defer hub.Unsubscribe(client)

	rr := httptest.NewRecorder()
	assert.Equal(t, uint64(0), c.replay(rr, client, "abc"))
	assert.Equal(t, uint64(0), c.replay(rr, client, ""))
	assert.Empty(t, rr.Body.String())
}
