package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aretw0/ainotes/pkg/core"
)

const writeWait = 10 * time.Second

// Message is what the /ws feed sends. The first message of a connection is
// a "snapshot"; every store change after it is an "event".
type Message struct {
	Type     string         `json:"type"`
	Snapshot *core.Snapshot `json:"snapshot,omitempty"`
	Event    *core.Event    `json:"event,omitempty"`
}

// events streams store events to a websocket client until either side hangs up.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Subscribe before the snapshot so no change falls in between.
	events := s.store.Subscribe(ctx)
	snap := s.store.Snapshot()
	if err := s.writeMessage(conn, Message{Type: "snapshot", Snapshot: &snap}); err != nil {
		return
	}

	pongWait := s.config.PingInterval * 2
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Clients only listen; reading detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Debug("websocket read failed", "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	s.logger.Debug("websocket client connected", "remote", r.RemoteAddr)
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := s.writeMessage(conn, Message{Type: "event", Event: &e}); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeMessage(conn *websocket.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket write failed", "error", err)
		return err
	}
	return nil
}
