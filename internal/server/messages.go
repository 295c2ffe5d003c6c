package server

import (
	"encoding/json"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	MessageTypeMove         MessageType = "move"
	MessageTypeResign       MessageType = "resign"
	MessageTypeLeave        MessageType = "leave"
	MessageTypeGameState    MessageType = "gameState"
	MessageTypeNotification MessageType = "notification"
	MessageTypeError        MessageType = "error"
)

// Message is the websocket envelope in both directions.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MovePayload carries a move in long algebraic notation ("e2e4", "e7e8q").
type MovePayload struct {
	Move string `json:"move"`
}

// NotificationPayload carries a human readable event.
type NotificationPayload struct {
	Message string `json:"message"`
}

// ErrorPayload carries an error description for the sender.
type ErrorPayload struct {
	Error string `json:"error"`
}

// newMessage wraps payload in an envelope of type t.
func newMessage(t MessageType, payload interface{}) Message {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw, _ = json.Marshal(ErrorPayload{Error: err.Error()})
		t = MessageTypeError
	}
	return Message{Type: t, Payload: raw}
}

func notification(text string) Message {
	return newMessage(MessageTypeNotification, NotificationPayload{Message: text})
}

func errorMessage(err error) Message {
	return newMessage(MessageTypeError, ErrorPayload{Error: err.Error()})
}
