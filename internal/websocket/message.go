package websocket

import "encoding/json"

// Message types sent to browsers.
const (
	TypeReady        = "ready"
	TypeNotification = "notification"
	TypeSubscribed   = "subscribed"
	TypeError        = "error"
)

// Message is the server-to-browser frame.
type Message struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	Topic    string          `json:"topic,omitempty"`
	Topics   []string        `json:"topics,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Request is the browser-to-server frame.
type Request struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

// Client actions.
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

func encode(msg Message) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		// Message only holds strings and raw JSON.
		panic(err)
	}
	return data
}
