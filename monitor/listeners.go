package monitor

import (
	"encoding/json"

	"farmeradmin/websocket"
)

// Listeners fans every event out to each listener in order.
type Listeners []Listener

func (ls Listeners) OnStateChanged(serviceID string, state string) {
	for _, l := range ls {
		l.OnStateChanged(serviceID, state)
	}
}

func (ls Listeners) OnProgress(serviceID string, update websocket.ProgressUpdate) {
	for _, l := range ls {
		l.OnProgress(serviceID, update)
	}
}

func (ls Listeners) OnCompleted(serviceID string, result json.RawMessage) {
	for _, l := range ls {
		l.OnCompleted(serviceID, result)
	}
}

func (ls Listeners) OnException(serviceID string, err error) {
	for _, l := range ls {
		l.OnException(serviceID, err)
	}
}
