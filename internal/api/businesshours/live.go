package businesshours

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/codr1/openhours/internal/monitor"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// GET /api/v1/hours/live
//
// Pushes a status message on connect and after every refresh until the
// client goes away.
func HandleLive(w http.ResponseWriter, r *http.Request) {
	d, viewer, snapshot, ok := prepare(w, r)
	if !ok {
		return
	}
	logger := log.Ctx(r.Context()).With().Str("viewer_timezone", viewer.Label).Logger()

	updates, cancel := d.Monitor.Subscribe()
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to upgrade live status connection")
		return
	}
	defer conn.Close()

	logger.Debug().Msg("Live status client connected")

	// The reader only exists to notice disconnects and answer pings.
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(snapshot monitor.Snapshot) error {
		conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		return conn.WriteJSON(newStatusResponse(viewer, snapshot))
	}

	if err := send(snapshot); err != nil {
		logger.Debug().Err(err).Msg("Failed to send initial live status")
		return
	}

	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			logger.Debug().Msg("Live status client disconnected")
			return
		case <-r.Context().Done():
			return
		case next, ok := <-updates:
			if !ok {
				return
			}
			if err := send(next); err != nil {
				logger.Debug().Err(err).Msg("Failed to send live status")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
