package handlers

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
)

const (
	watchWriteWait  = 5 * time.Second
	watchPongWait   = 60 * time.Second
	watchPingPeriod = watchPongWait * 9 / 10
	watchBuffer     = 8
)

// Watch event kinds.
const (
	EventSnapshot = "snapshot"
	EventChange   = "change"
)

// WatchEvent is one message on the watch socket.
type WatchEvent struct {
	Kind   string                 `json:"kind"`
	Config domain.ExtensionConfig `json:"config"`
}

// Watch streams the configuration over a websocket: the current value first,
// then every stored change. A client too slow to keep up is disconnected.
func Watch(d deps.Deps) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(d.AllowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		// Subscribe before the snapshot so no write between the two is lost.
		// A write already in the snapshot may also arrive as a change.
		events := make(chan domain.ExtensionConfig, watchBuffer)
		overflow := make(chan struct{})
		var overflowOnce sync.Once
		unsubscribe := d.Settings.Watch(func(cfg domain.ExtensionConfig) {
			select {
			case events <- cfg:
			default:
				overflowOnce.Do(func() { close(overflow) })
			}
		})
		defer unsubscribe()

		current, err := d.Settings.Load(r.Context())
		if err != nil {
			storageFailed(w, d.Logger, "load", err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied.
			d.Logger.Warn("websocket upgrade failed", logger.Error(err))
			return
		}
		defer conn.Close()

		closed := make(chan struct{})
		go readPump(conn, closed)

		d.Logger.Debug("watch client connected", logger.String("remote", r.RemoteAddr))
		if err := writeEvent(conn, WatchEvent{Kind: EventSnapshot, Config: current}); err != nil {
			return
		}

		ticker := time.NewTicker(watchPingPeriod)
		defer ticker.Stop()

		for {
			select {
			case cfg := <-events:
				if err := writeEvent(conn, WatchEvent{Kind: EventChange, Config: cfg}); err != nil {
					d.Logger.Debug("watch client write failed", logger.Error(err))
					return
				}
			case <-ticker.C:
				deadline := time.Now().Add(watchWriteWait)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			case <-overflow:
				d.Logger.Warn("watch client too slow, disconnecting",
					logger.String("remote", r.RemoteAddr))
				deadline := time.Now().Add(watchWriteWait)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"), deadline)
				return
			case <-closed:
				d.Logger.Debug("watch client disconnected", logger.String("remote", r.RemoteAddr))
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, ev WatchEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
	return conn.WriteJSON(ev)
}

// readPump drains client frames so pongs and close frames are processed.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(watchPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// originChecker accepts requests without an Origin, origins in allowed, and
// same-host origins.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
