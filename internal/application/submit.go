package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrSubmissionFailed wraps every submission failure.
var ErrSubmissionFailed = errors.New("application: submission failed")

// DefaultSubmitDelay stands in for a network round trip.
const DefaultSubmitDelay = 2 * time.Second

// Submitter delivers a completed draft.
type Submitter interface {
	Submit(ctx context.Context, draft Draft) (SubmissionResult, error)
}

// Simulator is an in-memory Submitter that waits a fixed delay and then
// fabricates a reference from its clock.
type Simulator struct {
	delay time.Duration
	clock func() time.Time

	mu   sync.Mutex
	fail error
}

// SimulatorOption customizes a Simulator.
type SimulatorOption func(*Simulator)

// WithDelay overrides the simulated latency. Zero or negative disables it.
func WithDelay(d time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.delay = d
	}
}

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) SimulatorOption {
	return func(s *Simulator) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewSimulator builds a Simulator with the default delay.
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{delay: DefaultSubmitDelay, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailWith makes subsequent submissions fail with err. Nil restores success.
func (s *Simulator) FailWith(err error) {
	s.mu.Lock()
	s.fail = err
	s.mu.Unlock()
}

// Delay is the configured latency.
func (s *Simulator) Delay() time.Duration {
	return s.delay
}

// Submit waits out the delay and returns a fresh reference.
func (s *Simulator) Submit(ctx context.Context, draft Draft) (SubmissionResult, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return SubmissionResult{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, ctx.Err())
		case <-timer.C:
		}
	}
	s.mu.Lock()
	fail := s.fail
	s.mu.Unlock()
	if fail != nil {
		return SubmissionResult{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, fail)
	}
	return SubmissionResult{ApplicationRef: NewRef(s.clock())}, nil
}

// NewRef formats a reference as "APP-" plus the last six digits of the
// Unix millisecond timestamp.
func NewRef(at time.Time) string {
	ms := at.UnixMilli()
	if ms < 0 {
		ms = -ms
	}
	return fmt.Sprintf("APP-%06d", ms%1_000_000)
}
