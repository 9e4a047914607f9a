package websocket

import (
	"time"

	"farmeradmin/logger"
)

type Option func(*ServiceWebSocket)

// WithOrigin sets the page origin the channel address is derived from.
func WithOrigin(origin string) Option {
	return func(c *ServiceWebSocket) { c.origin = origin }
}

func WithDialer(d Dialer) Option {
	return func(c *ServiceWebSocket) { c.dialer = d }
}

func WithDialTimeout(d time.Duration) Option {
	return func(c *ServiceWebSocket) { c.dialTimeout = d }
}

func WithLogger(l logger.Logger) Option {
	return func(c *ServiceWebSocket) { c.logger = l }
}

func WithMetrics(m Metrics) Option {
	return func(c *ServiceWebSocket) { c.metrics = m }
}

// WithMaxReconnectAttempts sets the retry ceiling. Zero disables reconnects.
func WithMaxReconnectAttempts(n int) Option {
	return func(c *ServiceWebSocket) { c.maxAttempts = n }
}

// WithReconnectStep sets the linear backoff unit: attempt k waits k*step.
func WithReconnectStep(step time.Duration) Option {
	return func(c *ServiceWebSocket) { c.reconnectStep = step }
}

// WithSuppressReconnectOnDisconnect makes Disconnect terminal: the close it
// causes schedules no reconnect and a pending reconnect is cancelled.
func WithSuppressReconnectOnDisconnect(suppress bool) Option {
	return func(c *ServiceWebSocket) { c.suppressReconnect = suppress }
}

func withAfterFunc(f func(time.Duration, func()) stopper) Option {
	return func(c *ServiceWebSocket) { c.afterFunc = f }
}
