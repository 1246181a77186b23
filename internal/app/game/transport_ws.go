package game

import (
	"errors"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// pongWait is how long the server waits for any inbound traffic, pongs included.
const pongWait = 60 * time.Second

// wsConn frames a WebSocket connection: one text message per envelope.
type wsConn struct {
	conn *websocket.Conn
}

// NewWebSocketConn wraps an upgraded WebSocket connection.
func NewWebSocketConn(conn *websocket.Conn) FrameConn {
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &wsConn{conn: conn}
}

// ReadFrame returns the payload of the next data message.
func (w *wsConn) ReadFrame() ([]byte, error) {
	_, payload, err := w.conn.ReadMessage()
	if err != nil {
		if errors.Is(err, websocket.ErrReadLimit) {
			return nil, ErrFrameTooLarge
		}
		return nil, err
	}

	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	return payload, nil
}

func (w *wsConn) WriteFrame(frame []byte, deadline time.Time) error {
	if err := w.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, frame)
}

func (w *wsConn) Ping(deadline time.Time) error {
	if err := w.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

func (w *wsConn) Network() string {
	return "ws"
}

func (w *wsConn) RemoteAddr() net.Addr {
	return w.conn.RemoteAddr()
}

// Close sends a normal closure frame when possible and closes the socket.
func (w *wsConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return w.conn.Close()
}
