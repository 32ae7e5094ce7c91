package websocket

import (
	"encoding/json"
	"time"
)

// Message types a client may send.
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// WSMessage is the envelope for every frame in both directions. Server
// pushes carry the event name in Type.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func newMessage(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleIncoming answers pings from c. Anything else is ignored; the
// channel is push-only.
func (m *Manager) handleIncoming(c *Client, raw []byte) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if msg.Type != MessageTypePing {
		return
	}

	pong, err := newMessage(MessageTypePong, nil)
	if err != nil {
		return
	}
	m.sendTo(c, pong)
}
