package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/dropdown/internal/errors"
	"github.com/vango-dev/dropdown/pkg/protocol"
)

// wsConn serializes writes to one WebSocket connection.
type wsConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
}

func (c *wsConn) send(msg protocol.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

func (c *wsConn) closeWith(code int, reason string) {
	c.mu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(c.writeTimeout))
	c.mu.Unlock()
	_ = c.conn.Close()
}

// readLoop decodes client frames and queues them on the session. It blocks
// until the connection fails or closes. Undecodable frames and rejected
// events are answered with an error message; the connection stays open.
func (s *Server) readLoop(c *wsConn, sess *Session) {
	conn := c.conn
	conn.SetReadLimit(s.config.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				sess.Logger().Warn("read error", "error", err)
				s.metrics.recordWSError("read")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		var ev protocol.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			sess.Logger().Debug("frame decode error", "error", err)
			s.metrics.recordWSError("decode")
			_ = c.send(protocol.NewError(0, errors.New(errors.ErrMalformedFrame).Wrap(err)))
			continue
		}
		if err := sess.QueueEvent(&ev); err != nil {
			_ = c.send(protocol.NewError(ev.Seq, err))
		}
	}
}

// heartbeat pings the client until ctx is done or the session closes.
func heartbeat(ctx context.Context, c *wsConn, interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
