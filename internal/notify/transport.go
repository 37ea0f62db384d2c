package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

// Conn is a single established push-channel connection. Read blocks
// until the next message frame arrives or the transport fails; a
// returned error means the connection is dead.
type Conn interface {
	// Subscribe registers interest in a per-user topic
	// (e.g. /topic/notifications/42).
	Subscribe(topic string) error

	// Read returns the next raw message payload.
	Read() ([]byte, error)

	// Close tears the connection down. Read unblocks with an error.
	Close() error
}

// Dialer establishes push-channel connections. The indirection exists
// so the reconnect logic can be exercised without a live server.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// subscribeFrame is the control message sent after connecting to bind
// the connection to a topic.
type subscribeFrame struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// wsConn wraps a gorilla websocket connection.
type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Subscribe(topic string) error {
	frame := subscribeFrame{Action: "subscribe", Topic: topic}
	if err := c.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	return nil
}

func (c *wsConn) Read() ([]byte, error) {
	_, payload, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("reading push message: %w", err)
	}
	return payload, nil
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// WebSocketDialer dials the backend's push channel over a plain
// websocket. There is no explicit dial timeout; failures are reported
// by the transport itself.
type WebSocketDialer struct{}

// NewWebSocketDialer returns the production Dialer.
func NewWebSocketDialer() *WebSocketDialer {
	return &WebSocketDialer{}
}

// Dial connects to the given websocket URL.
func (d *WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return &wsConn{conn: conn}, nil
}

// decodeNotification parses a push payload. Messages are single JSON
// notification objects, one per frame, no batching.
func decodeNotification(payload []byte, out interface{}) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("parsing notification payload: %w", err)
	}
	return nil
}
