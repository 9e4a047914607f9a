package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"
)

var errFakeClosed = errors.New("use of closed network connection")

type fakeConn struct {
	inbound chan string
	closed  chan struct{}
	once    sync.Once

	mu   sync.Mutex
	sent []string
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan string, 16),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) Receive() (string, error) {
	select {
	case frame, ok := <-c.inbound:
		if !ok {
			return "", io.EOF
		}
		return frame, nil
	case <-c.closed:
		return "", errFakeClosed
	}
}

func (c *fakeConn) Send(frame string) error {
	select {
	case <-c.closed:
		return errFakeClosed
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, frame)
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// remoteClose simulates the far end closing the channel.
func (c *fakeConn) remoteClose() {
	close(c.inbound)
}

func (c *fakeConn) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

// fakeDialer hands out queued results in order; once the queue is empty it
// keeps failing with failErr.
type fakeDialer struct {
	mu      sync.Mutex
	results []dialResult
	failErr error
	urls    []string
}

type dialResult struct {
	conn Conn
	err  error
}

func (d *fakeDialer) queue(conn Conn, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = append(d.results, dialResult{conn: conn, err: err})
}

func (d *fakeDialer) Dial(ctx context.Context, url string, origin string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls = append(d.urls, url)
	if len(d.results) == 0 {
		return nil, d.failErr
	}
	r := d.results[0]
	d.results = d.results[1:]
	return r.conn, r.err
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.urls)
}

// fakeScheduler records scheduled reconnects instead of starting timers.
type fakeScheduler struct {
	mu        sync.Mutex
	timers    []*fakeTimer
	scheduled chan time.Duration
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: make(chan time.Duration, 32)}
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) stopper {
	s.mu.Lock()
	t := &fakeTimer{delay: d, fn: f}
	s.timers = append(s.timers, t)
	s.mu.Unlock()
	s.scheduled <- d
	return t
}

func (s *fakeScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, 0, len(s.timers))
	for _, t := range s.timers {
		out = append(out, t.delay)
	}
	return out
}

func (s *fakeScheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *fakeScheduler) Last() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

// FireLast runs the newest timer on the calling goroutine, as the runtime
// would once its delay elapsed, even if it was stopped.
func (s *fakeScheduler) FireLast() {
	t := s.Last()
	t.fired = true
	t.fn()
}

type eventLog struct {
	mu     sync.Mutex
	events []string
	errs   []error
	ch     chan string
}

func newEventLog() *eventLog {
	return &eventLog{ch: make(chan string, 64)}
}

func (l *eventLog) record(name string) {
	l.mu.Lock()
	l.events = append(l.events, name)
	l.mu.Unlock()
	l.ch <- name
}

func (l *eventLog) callbacks() Callbacks {
	return Callbacks{
		OnConnect:    func() { l.record("connect") },
		OnDisconnect: func() { l.record("disconnect") },
		OnProgress:   func(msg *Message) { l.record("progress") },
		OnComplete:   func(result json.RawMessage) { l.record("complete:" + string(result)) },
		OnError: func(err error) {
			l.mu.Lock()
			l.errs = append(l.errs, err)
			l.mu.Unlock()
			l.record("error")
		},
	}
}

func (l *eventLog) Errors() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]error(nil), l.errs...)
}

func (l *eventLog) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// blockingDialer holds each Dial until release is closed, then returns its
// configured result.
type blockingDialer struct {
	started chan struct{}
	release chan struct{}
	conn    Conn
	err     error
}

func newBlockingDialer(conn Conn, err error) *blockingDialer {
	return &blockingDialer{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		conn:    conn,
		err:     err,
	}
}

func (d *blockingDialer) Dial(ctx context.Context, url string, origin string) (Conn, error) {
	d.started <- struct{}{}
	<-d.release
	return d.conn, d.err
}
