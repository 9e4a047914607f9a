package websocket

import (
	"context"
	"errors"
	"io"
	"time"

	"farmeradmin/logger"
	"farmeradmin/retry"
)

// NewServiceWebSocket creates a client for the progress channel of one
// backend service job. It does not dial until Connect is called.
func NewServiceWebSocket(serviceID string, callbacks Callbacks, opts ...Option) *ServiceWebSocket {
	c := &ServiceWebSocket{
		serviceID:     serviceID,
		origin:        "http://localhost",
		callbacks:     callbacks,
		dialer:        NetDialer{},
		dialTimeout:   DEFAULT_DIAL_TIMEOUT,
		maxAttempts:   DEFAULT_MAX_RECONNECT_ATTEMPTS,
		reconnectStep: DEFAULT_RECONNECT_STEP,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		logger:  logger.NewNop(),
		metrics: nopMetrics{},
		state:   WEB_SOCKET_STATE_STOPPED,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.retry = retry.NewManager(c.maxAttempts > 0, c.maxAttempts, retry.Linear{Step: c.reconnectStep}, c.logger)
	return c
}

// Connect opens a new channel. An already open channel is not closed; the
// client simply stops referencing it. Failures are reported through the
// callbacks, never returned.
func (c *ServiceWebSocket) Connect() {
	wsURL, err := ServiceURL(c.origin, c.serviceID)
	if err != nil {
		c.logger.Error("Cannot build WebSocket address for service %s: %v", c.serviceID, err)
		c.emitError(NewWebSocketError("invalid service address", err))
		return
	}

	c.mu.Lock()
	c.conn = nil
	c.state = WEB_SOCKET_STATE_CONNECTING
	gen := c.stopGen
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.dialTimeout)
	conn, err := c.dialer.Dial(ctx, wsURL, c.origin)
	cancel()

	var cn *connection
	c.mu.Lock()
	stopped := gen != c.stopGen
	if !stopped && err == nil {
		cn = &connection{Conn: conn, gen: gen}
		c.conn = cn
		c.state = WEB_SOCKET_STATE_CONNECTED
		c.retry.Reset()
	}
	c.mu.Unlock()

	if stopped {
		c.logger.Debug("Disconnect requested while dialing %s, dropping the attempt", wsURL)
		if conn != nil {
			if err := conn.Close(); err != nil {
				c.logger.Debug("WebSocket connection closed during shutdown: %v", err)
			}
		}
		return
	}

	if err != nil {
		c.logger.Error("WebSocket connection to %s failed: %v", wsURL, err)
		c.emitError(NewWebSocketError("connection failed", err))
		c.handleClose(nil, gen)
		return
	}

	c.metrics.IncConnections()
	c.metrics.SetConnectionStatus(1)
	c.logger.Info("WebSocket connected to %s", wsURL)

	if c.callbacks.OnConnect != nil {
		c.callbacks.OnConnect()
	}

	go c.readLoop(cn)
}

// Disconnect closes the current channel and drops the reference to it. With
// reconnect suppression it also abandons a dial that is still in flight.
func (c *ServiceWebSocket) Disconnect() {
	c.mu.Lock()
	cn := c.conn
	if cn != nil {
		cn.intentional = true
		c.conn = nil
	}
	c.state = WEB_SOCKET_STATE_STOPPED
	if c.suppressReconnect {
		c.stopGen++
		c.cancelPendingLocked()
	}
	c.mu.Unlock()

	if cn == nil {
		return
	}

	if err := cn.Close(); err != nil {
		c.logger.Debug("WebSocket connection closed during shutdown: %v", err)
	}
}

// SendPing writes the heartbeat frame if a channel is open.
func (c *ServiceWebSocket) SendPing() {
	c.mu.Lock()
	cn := c.conn
	c.mu.Unlock()

	if cn == nil {
		return
	}

	if err := cn.Send(PING_FRAME); err != nil {
		c.logger.Warn("Failed to send ping to service %s: %v", c.serviceID, err)
	}
}

func (c *ServiceWebSocket) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ServiceWebSocket) IsConnected() bool {
	return c.State() == WEB_SOCKET_STATE_CONNECTED
}

// ReconnectAttempts is the number of reconnects scheduled since the last
// successful open.
func (c *ServiceWebSocket) ReconnectAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retry.GetAttempt()
}

func (c *ServiceWebSocket) URL() string {
	wsURL, err := ServiceURL(c.origin, c.serviceID)
	if err != nil {
		return ""
	}
	return wsURL
}

func (c *ServiceWebSocket) readLoop(cn *connection) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Read loop panic: %v", r)
		}
	}()

	for {
		frame, err := cn.Receive()
		if err != nil {
			c.mu.Lock()
			intentional := cn.intentional
			c.mu.Unlock()

			switch {
			case errors.Is(err, io.EOF):
				c.logger.Info("Connection closed by server")
			case intentional:
				c.logger.Debug("Read error during shutdown (expected): %v", err)
			default:
				c.logger.Error("Read error: %v", err)
				c.emitError(NewWebSocketError("read error", err))
			}

			c.handleClose(cn, cn.gen)
			return
		}

		c.handleFrame(frame)
	}
}

func (c *ServiceWebSocket) handleFrame(frame string) {
	msg, err := DecodeMessage([]byte(frame))
	if err != nil {
		c.logger.Error("%v", err)
		c.metrics.IncDecodeErrors()
		return
	}

	c.dispatch(msg)
}

func (c *ServiceWebSocket) dispatch(msg *Message) {
	switch msg.Type {
	case MESSAGE_TYPE_PROGRESS:
		if c.callbacks.OnProgress != nil {
			c.callbacks.OnProgress(msg)
		}
	case MESSAGE_TYPE_COMPLETED:
		if c.callbacks.OnComplete != nil {
			c.callbacks.OnComplete(msg.Result)
		}
	case MESSAGE_TYPE_ERROR:
		c.emitError(NewServiceError(msg.Error))
	case MESSAGE_TYPE_PONG:
		// heartbeat acknowledgement
	default:
		c.logger.Info("Unknown message type: %s", msg.Type)
	}
}

// handleClose runs for every close, including a failed dial (cn == nil).
// gen is the stop generation the channel was dialed under.
func (c *ServiceWebSocket) handleClose(cn *connection, gen uint64) {
	c.mu.Lock()
	intentional := cn != nil && cn.intentional
	if cn != nil && c.conn == cn {
		c.conn = nil
	}
	if c.conn == nil {
		c.state = WEB_SOCKET_STATE_STOPPED
	}
	c.mu.Unlock()

	c.metrics.IncDisconnects()
	c.metrics.SetConnectionStatus(0)
	c.logger.Info("WebSocket disconnected from service %s", c.serviceID)

	if c.callbacks.OnDisconnect != nil {
		c.callbacks.OnDisconnect()
	}

	if intentional && c.suppressReconnect {
		return
	}

	c.attemptReconnect(gen)
}

func (c *ServiceWebSocket) attemptReconnect(gen uint64) {
	c.mu.Lock()
	if gen != c.stopGen {
		c.mu.Unlock()
		return
	}
	delay, ok := c.retry.Next()
	if !ok {
		c.mu.Unlock()
		return
	}

	attempt := c.retry.GetAttempt()
	c.cancelPendingLocked()
	seq := c.timerSeq
	c.pending = c.afterFunc(delay, func() {
		c.reconnect(seq, attempt)
	})
	c.mu.Unlock()

	c.metrics.IncReconnectAttempts()
	c.logger.Debug("Scheduled reconnect %d/%d in %v", attempt, c.maxAttempts, delay)
}

func (c *ServiceWebSocket) reconnect(seq uint64, attempt int) {
	c.mu.Lock()
	if seq != c.timerSeq {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.mu.Unlock()

	c.logger.Info("Reconnecting... (%d/%d)", attempt, c.maxAttempts)
	c.Connect()
}

// cancelPendingLocked invalidates any scheduled reconnect. Callers hold mu.
func (c *ServiceWebSocket) cancelPendingLocked() {
	c.timerSeq++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *ServiceWebSocket) emitError(err error) {
	if c.callbacks.OnError != nil {
		c.callbacks.OnError(err)
	}
}
