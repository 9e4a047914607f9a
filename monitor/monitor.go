package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"farmeradmin/config"
	"farmeradmin/logger"
	"farmeradmin/websocket"
)

const (
	COMMAND_PING      = "ping"
	COMMAND_STOP      = "stop"
	COMMAND_RECONNECT = "reconnect"
)

var (
	ErrConnectionLost = errors.New("service channel closed and reconnect attempts exhausted")
	ErrStopped        = errors.New("monitor stopped by command")
)

type Listener interface {
	OnStateChanged(serviceID string, state string)
	OnProgress(serviceID string, update websocket.ProgressUpdate)
	OnCompleted(serviceID string, result json.RawMessage)
	OnException(serviceID string, err error)
}

type CommandMessage struct {
	Command string         `json:"command"`
	Params  map[string]any `json:"params"`
}

// Monitor watches one service generation job over its progress channel
// until the job completes, fails or the caller gives up.
type Monitor struct {
	serviceID    string
	ws           websocket.Client
	listener     Listener
	logger       logger.Logger
	pingInterval time.Duration
	maxAttempts  int

	// closes requested by the reconnect command, not counted as losses
	mu    sync.Mutex
	drops int

	once sync.Once
	done chan struct{}
	err  error
}

type monitorListener struct {
	parent Listener
}

// New builds a monitor for serviceID. Extra options are applied after the
// ones derived from cfg.
func New(serviceID string, cfg *config.ServiceConfig, listener Listener, log logger.Logger, opts ...websocket.Option) *Monitor {
	if log == nil {
		log = logger.NewNop()
	}

	maxAttempts := cfg.MaxReconnectAttempts
	if !cfg.AutoReconnect {
		maxAttempts = 0
	}

	m := &Monitor{
		serviceID:    serviceID,
		listener:     &monitorListener{parent: listener},
		logger:       log,
		pingInterval: cfg.GetPingInterval(),
		maxAttempts:  maxAttempts,
		done:         make(chan struct{}),
	}

	wsOpts := []websocket.Option{
		websocket.WithOrigin(cfg.Origin),
		websocket.WithLogger(log),
		websocket.WithMaxReconnectAttempts(maxAttempts),
		websocket.WithReconnectStep(cfg.GetReconnectStep()),
		websocket.WithSuppressReconnectOnDisconnect(cfg.SuppressReconnectOnDisconnect),
	}
	wsOpts = append(wsOpts, opts...)

	m.ws = websocket.NewServiceWebSocket(serviceID, m.callbacks(), wsOpts...)
	return m
}

func (m *Monitor) ServiceID() string {
	return m.serviceID
}

func (m *Monitor) State() string {
	return m.ws.State()
}

// Run connects and blocks until the service completes (nil), reports an
// error (*websocket.ServiceError), the channel is lost for good, a stop
// command arrives or ctx ends.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("Watching service %s at %s", m.serviceID, m.ws.URL())
	m.ws.Connect()
	defer m.ws.Disconnect()

	ticker := time.NewTicker(m.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Stopped watching service %s: %v", m.serviceID, ctx.Err())
			return ctx.Err()
		case <-m.done:
			return m.err
		case <-ticker.C:
			m.ws.SendPing()
		}
	}
}

// Done is closed once Run has a terminal result.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

func (m *Monitor) HandleCommand(topic string, payload []byte) {
	m.logger.Info("Received command on topic: %s", topic)

	var cmdMsg CommandMessage
	if err := json.Unmarshal(payload, &cmdMsg); err != nil {
		m.logger.Error("Failed to parse command message: %v", err)
		return
	}

	if err := m.executeCommand(cmdMsg.Command); err != nil {
		m.logger.Error("Failed to execute command %s: %v", cmdMsg.Command, err)
	} else {
		m.logger.Info("Successfully executed command: %s", cmdMsg.Command)
	}
}

func (m *Monitor) executeCommand(command string) error {
	switch command {
	case COMMAND_PING:
		m.ws.SendPing()
		return nil
	case COMMAND_STOP:
		m.finish(ErrStopped)
		return nil
	case COMMAND_RECONNECT:
		if m.ws.State() == websocket.WEB_SOCKET_STATE_CONNECTED {
			m.mu.Lock()
			m.drops++
			m.mu.Unlock()
		}
		m.ws.Disconnect()
		m.ws.Connect()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (m *Monitor) callbacks() websocket.Callbacks {
	return websocket.Callbacks{
		OnConnect: func() {
			m.listener.OnStateChanged(m.serviceID, websocket.WEB_SOCKET_STATE_CONNECTED)
		},
		OnDisconnect: func() {
			m.listener.OnStateChanged(m.serviceID, websocket.WEB_SOCKET_STATE_STOPPED)
			if m.consumeDrop() {
				return
			}
			// attempts are counted after this callback returns
			if m.ws.ReconnectAttempts() >= m.maxAttempts {
				m.finish(ErrConnectionLost)
			}
		},
		OnProgress: func(msg *websocket.Message) {
			update, err := msg.Progress()
			if err != nil {
				m.logger.Warn("Ignoring malformed progress record for service %s: %v", m.serviceID, err)
				return
			}
			m.listener.OnProgress(m.serviceID, update)
		},
		OnComplete: func(result json.RawMessage) {
			m.listener.OnCompleted(m.serviceID, result)
			m.finish(nil)
		},
		OnError: func(err error) {
			m.listener.OnException(m.serviceID, err)

			var serviceErr *websocket.ServiceError
			if errors.As(err, &serviceErr) {
				m.finish(serviceErr)
			}
		},
	}
}

func (m *Monitor) consumeDrop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.drops == 0 {
		return false
	}
	m.drops--
	return true
}

func (m *Monitor) finish(err error) {
	m.once.Do(func() {
		m.err = err
		close(m.done)
	})
}

func (l *monitorListener) OnStateChanged(serviceID string, state string) {
	if l.parent != nil {
		l.parent.OnStateChanged(serviceID, state)
	}
}

func (l *monitorListener) OnProgress(serviceID string, update websocket.ProgressUpdate) {
	if l.parent != nil {
		l.parent.OnProgress(serviceID, update)
	}
}

func (l *monitorListener) OnCompleted(serviceID string, result json.RawMessage) {
	if l.parent != nil {
		l.parent.OnCompleted(serviceID, result)
	}
}

func (l *monitorListener) OnException(serviceID string, err error) {
	if l.parent != nil {
		l.parent.OnException(serviceID, err)
	}
}
