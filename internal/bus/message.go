package bus

import "encoding/json"

// Local events dispatched by Client itself, never sent on the wire.
const (
	EventConnected    = "connected"
	EventReconnecting = "reconnecting"
)

// Message mirrors the messagebus wire format.
type Message struct {
	Type    string         `json:"type"`
	Data    map[string]any `json:"data"`
	Context map[string]any `json:"context"`
}

// NewMessage builds a message with empty context.
func NewMessage(msgType string, data map[string]any) Message {
	return Message{Type: msgType, Data: data}
}

// WithContext returns a copy of m using ctx as its context.
func (m Message) WithContext(ctx map[string]any) Message {
	m.Context = ctx
	return m
}

// String returns the data field, or "" when it is missing or not a string.
func (m Message) String(key string) string {
	v, _ := m.Data[key].(string)
	return v
}

func (m Message) encode() ([]byte, error) {
	if m.Data == nil {
		m.Data = map[string]any{}
	}
	if m.Context == nil {
		m.Context = map[string]any{}
	}
	return json.Marshal(m)
}

func decode(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}
