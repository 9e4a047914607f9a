package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"farmeradmin/logger"
	"farmeradmin/retry"
)

const (
	WEB_SOCKET_STATE_CONNECTING = "ws_connecting"
	WEB_SOCKET_STATE_CONNECTED  = "ws_connected"
	WEB_SOCKET_STATE_STOPPED    = "ws_stopped"

	MESSAGE_TYPE_PROGRESS  = "progress"
	MESSAGE_TYPE_COMPLETED = "completed"
	MESSAGE_TYPE_ERROR     = "error"
	MESSAGE_TYPE_PONG      = "pong"

	PING_FRAME            = "ping"
	SERVICE_PATH_TEMPLATE = "/ws/service/%s"

	DEFAULT_MAX_RECONNECT_ATTEMPTS = 5
	DEFAULT_RECONNECT_STEP         = 2000 * time.Millisecond
	DEFAULT_DIAL_TIMEOUT           = 10 * time.Second
)

// Message is one decoded inbound frame. Fields holds every top-level member
// of the record, Raw the frame exactly as received.
type Message struct {
	Type   string
	Result json.RawMessage
	Error  json.RawMessage
	Fields map[string]json.RawMessage
	Raw    json.RawMessage
}

// ProgressUpdate is the shape the backend uses for progress frames.
type ProgressUpdate struct {
	Progress     float64 `json:"progress"`
	CurrentStage string  `json:"current_stage,omitempty"`
	Message      string  `json:"message,omitempty"`
}

// Callbacks is the handler table. Nil entries are skipped.
type Callbacks struct {
	OnConnect    func()
	OnDisconnect func()
	OnProgress   func(msg *Message)
	OnComplete   func(result json.RawMessage)
	OnError      func(err error)
}

type ServiceWebSocket struct {
	serviceID         string
	origin            string
	callbacks         Callbacks
	dialer            Dialer
	dialTimeout       time.Duration
	maxAttempts       int
	reconnectStep     time.Duration
	suppressReconnect bool
	afterFunc         func(time.Duration, func()) stopper
	logger            logger.Logger
	metrics           Metrics

	mu       sync.Mutex
	conn     *connection
	state    string
	retry    *retry.Manager
	pending  stopper
	timerSeq uint64
	stopGen  uint64
}

// connection pairs a live channel with whether this side asked it to close.
type connection struct {
	Conn
	gen         uint64
	intentional bool
}

type stopper interface {
	Stop() bool
}
