package websocket

import (
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// WebSocketError is a transport-level failure: dialing, reading or an
	// unusable address.
	WebSocketError struct {
		message string
		err     error
	}

	// ServiceError carries the error member of an inbound error frame.
	ServiceError struct {
		Payload json.RawMessage
	}

	DecodeError struct {
		err error
	}
)

func (e *WebSocketError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("websocket error: %s - %v", e.message, e.err)
	}
	return fmt.Sprintf("websocket error: %s", e.message)
}

func (e *WebSocketError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Error() string {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return "service reported an error"
	}

	var text string
	if err := json.Unmarshal(e.Payload, &text); err == nil {
		return "service error: " + text
	}
	return "service error: " + strings.TrimSpace(string(e.Payload))
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse WebSocket message: %v", e.err)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

func NewWebSocketError(message string, err error) *WebSocketError {
	return &WebSocketError{message: message, err: err}
}

func NewServiceError(payload json.RawMessage) *ServiceError {
	return &ServiceError{Payload: payload}
}

func NewDecodeError(err error) *DecodeError {
	return &DecodeError{err: err}
}
