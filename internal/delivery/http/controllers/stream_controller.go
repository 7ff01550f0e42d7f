package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventpass/internal/events"
)

// KeepaliveInterval is how often a comment line is written to idle streams.
const KeepaliveInterval = 15 * time.Second

// StreamController serves the admin change feed as server-sent events.
type StreamController struct {
	Logger    *slog.Logger
	Hub       *events.Hub
	keepalive time.Duration
}

// NewStreamController creates a StreamController reading from hub.
func NewStreamController(logger *slog.Logger, hub *events.Hub) *StreamController {
	return &StreamController{
		Logger:    logger,
		Hub:       hub,
		keepalive: KeepaliveInterval,
	}
}

// Stream godoc
// @Summary Change feed
// @Description Server-sent events for registration, notification, and content changes. topics is a comma-separated list of patterns where "*" matches one segment and ">" the rest. Reconnecting clients send Last-Event-ID to replay missed events. EventSource clients may pass the token as access_token.
// @Tags events
// @Produce text/event-stream
// @Security BearerAuth
// @Param topics query string false "Topic filters, e.g. eventpass.registrations.>"
// @Param Last-Event-ID header string false "Last event ID received"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/events/stream [get]
func (c *StreamController) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// streams outlive the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	var topics []string
	if q := r.URL.Query().Get("topics"); q != "" {
		for _, t := range strings.Split(q, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	}

	client := c.Hub.Subscribe(topics)
	defer c.Hub.Unsubscribe(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		c.Logger.ErrorContext(r.Context(), "streaming not supported", "path", r.URL.Path, "err", err)
		return
	}

	replayed := c.replay(w, client, r.Header.Get("Last-Event-ID"))
	_ = rc.Flush()
	c.pump(r.Context(), w, rc, client, replayed)
}

// replay writes buffered events after lastEventID and returns the highest ID covered by the replay.
func (c *StreamController) replay(w http.ResponseWriter, client *events.Client, lastEventID string) uint64 {
	if lastEventID == "" {
		return 0
	}
	last, err := strconv.ParseUint(lastEventID, 10, 64)
	if err != nil {
		return 0
	}
	for _, evt := range c.Hub.EventsSince(last) {
		if client.Matches(evt.Topic) {
			writeEvent(w, evt)
		}
		last = evt.ID
	}
	return last
}

// pump forwards live events until ctx ends. The client subscribes before replaying, so events
// with IDs at or below replayed were already written and are skipped.
func (c *StreamController) pump(ctx context.Context, w http.ResponseWriter, rc *http.ResponseController, client *events.Client, replayed uint64) {
	keepalive := time.NewTicker(c.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-client.Events():
			if evt.ID <= replayed {
				continue
			}
			writeEvent(w, evt)
			if err := rc.Flush(); err != nil {
				return
			}
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, evt *events.Event) {
	fmt.Fprintf(w, "id:%d\n", evt.ID)
	fmt.Fprintf(w, "event:%s\n", evt.Topic)
	fmt.Fprintf(w, "data:%s\n\n", evt.Data)
}
