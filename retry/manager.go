package retry

import (
	"context"
	"math"
	"time"

	"farmeradmin/logger"
)

const (
	INITIAL_RETRY_DELAY      = 200 * time.Millisecond
	MAX_RETRY_DELAY          = 5 * time.Second
	RETRY_BACKOFF_MULTIPLIER = 2
)

// Policy maps a 1-based attempt number to the delay that precedes it.
type Policy interface {
	Delay(attempt int) time.Duration
}

// Linear waits Step*attempt: 1x, 2x, 3x ...
type Linear struct {
	Step time.Duration
}

func (p Linear) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.Step * time.Duration(attempt)
}

// Exponential waits Initial*Multiplier^(attempt-1), capped at Max.
type Exponential struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

func (p Exponential) Delay(attempt int) time.Duration {
	initial := p.Initial
	if initial <= 0 {
		initial = INITIAL_RETRY_DELAY
	}
	maxDelay := p.Max
	if maxDelay <= 0 {
		maxDelay = MAX_RETRY_DELAY
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = RETRY_BACKOFF_MULTIPLIER
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	return time.Duration(math.Min(delay, float64(maxDelay)))
}

// Manager counts attempts against a ceiling. It is not safe for concurrent
// use; callers serialise access.
type Manager struct {
	enabled     bool
	maxAttempts int
	policy      Policy
	attempt     int
	logger      logger.Logger
}

// NewManager creates a manager. maxAttempts <= 0 means unlimited.
func NewManager(enabled bool, maxAttempts int, policy Policy, logger logger.Logger) *Manager {
	return &Manager{
		enabled:     enabled,
		maxAttempts: maxAttempts,
		policy:      policy,
		attempt:     0,
		logger:      logger,
	}
}

func (m *Manager) ShouldReconnect() bool {
	if !m.enabled {
		return false
	}

	if m.maxAttempts > 0 && m.attempt >= m.maxAttempts {
		m.logger.Info("Max reconnection attempts (%d) reached", m.maxAttempts)
		return false
	}

	return true
}

// Next consumes one attempt and returns the delay to wait before it.
func (m *Manager) Next() (time.Duration, bool) {
	if !m.ShouldReconnect() {
		return 0, false
	}

	m.attempt++
	return m.policy.Delay(m.attempt), true
}

// Wait consumes one attempt and blocks for its delay.
func (m *Manager) Wait(ctx context.Context) error {
	delay, ok := m.Next()
	if !ok {
		return ErrAttemptsExhausted
	}

	m.logger.Warn("Waiting %v before attempt %d", delay, m.attempt)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (m *Manager) Reset() {
	if m.enabled && m.attempt > 0 {
		m.logger.Info("Reconnection manager reset - connection successful")
	}
	m.attempt = 0
}

func (m *Manager) GetAttempt() int {
	return m.attempt
}

func (m *Manager) IsEnabled() bool {
	return m.enabled
}
