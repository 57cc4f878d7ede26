// Package stream forwards negotiation events from Redis pub/sub to
// websocket clients, so auditors can follow the append-only log live.
package stream

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/AllenGeorge08/SkillBridge/internal/events"
)

// channels is every event kind the feed forwards.
var channels = []string{
	events.KindGraduateAdded,
	events.KindEmployerStaked,
	events.KindTokenApproved,
	events.KindPoolWithdrawn,
	events.KindQuoteIssued,
	events.KindQuoteApproved,
	events.KindQuoteRejected,
	events.KindHireFinalized,
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Clients are dashboards behind the Gateway; origin policy lives there.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed serves the /events/stream websocket endpoint.
type Feed struct {
	rdb *redis.Client
}

// NewFeed returns a Feed backed by the given Redis client.
func NewFeed(rdb *redis.Client) *Feed {
	return &Feed{rdb: rdb}
}

// ServeHTTP upgrades the connection and relays events until the client
// disconnects or the request context is cancelled.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := f.rdb.Subscribe(ctx, channels...)
	defer sub.Close()

	// Drain client reads so close frames are processed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				slog.Warn("websocket write failed", "err", err)
				return
			}
		}
	}
}
