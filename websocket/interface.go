package websocket

import (
	"context"
)

// Conn is one open text-message channel.
type Conn interface {
	Receive() (string, error)
	Send(frame string) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string, origin string) (Conn, error)
}

type Metrics interface {
	IncConnections()
	IncDisconnects()
	IncReconnectAttempts()
	IncDecodeErrors()
	SetConnectionStatus(status float64)
}

type Client interface {
	Connect()
	Disconnect()
	SendPing()
	State() string
	ReconnectAttempts() int
	URL() string
}

type nopMetrics struct{}

func (nopMetrics) IncConnections() {}
func (nopMetrics) IncDisconnects() {}
func (nopMetrics) IncReconnectAttempts() {}
func (nopMetrics) IncDecodeErrors() {}
func (nopMetrics) SetConnectionStatus(float64) {}
