package player

import (
	"context"
	"io"
	"sync"
	"time"
)

// EventKind classifies a mock playback event.
type EventKind string

const (
	// EventStart is recorded when a chunk begins playing.
	EventStart EventKind = "start"
	// EventFinish is recorded when a chunk finishes playing.
	EventFinish EventKind = "finish"
	// EventFail is recorded when a chunk fails to play.
	EventFail EventKind = "fail"
)

// Event is one recorded playback event.
type Event struct {
	Kind  EventKind
	Index int // zero-based chunk index in play order
}

// Mock is a mock player for testing. It records every chunk it is asked to
// play and the order of playback start/finish events, tracks how many
// playback sessions are active at once, and can be scripted to fail or to
// simulate playback latency.
type Mock struct {
	mu        sync.Mutex
	played    [][]byte
	events    []Event
	delay     time.Duration
	failFn    func(index int, chunk []byte) error
	active    int
	maxActive int
	index     int
	closed    bool
}

// MockOption configures a Mock.
type MockOption func(*Mock)

// WithPlayDelay makes each mock playback take the given duration.
func WithPlayDelay(d time.Duration) MockOption {
	return func(m *Mock) {
		m.delay = d
	}
}

// WithFailFunc scripts playback failures. The function is called with the
// zero-based play index and the chunk; a non-nil return fails that chunk.
func WithFailFunc(fn func(index int, chunk []byte) error) MockOption {
	return func(m *Mock) {
		m.failFn = fn
	}
}

// NewMock creates a mock player.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Play records the chunk and simulates playback.
func (m *Mock) Play(ctx context.Context, chunk []byte) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return io.ErrClosedPipe
	}
	index := m.index
	m.index++
	m.active++
	if m.active > m.maxActive {
		m.maxActive = m.active
	}
	m.events = append(m.events, Event{Kind: EventStart, Index: index})
	delay := m.delay
	failFn := m.failFn
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			m.record(EventFail, index, nil)
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if failFn != nil {
		if err := failFn(index, chunk); err != nil {
			m.record(EventFail, index, nil)
			return err
		}
	}

	m.record(EventFinish, index, chunk)
	return nil
}

func (m *Mock) record(kind EventKind, index int, chunk []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active--
	m.events = append(m.events, Event{Kind: kind, Index: index})
	if chunk != nil {
		m.played = append(m.played, chunk)
	}
}

// Played returns the chunks that finished playing, in completion order.
func (m *Mock) Played() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.played...)
}

// Events returns the recorded start/finish/fail events in order.
func (m *Mock) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// MaxActive returns the highest number of concurrently active playback
// sessions observed.
func (m *Mock) MaxActive() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxActive
}

// Reset clears all recorded state.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played = nil
	m.events = nil
	m.index = 0
	m.maxActive = 0
}

// Name returns "mock".
func (m *Mock) Name() string {
	return "mock"
}

// Close releases resources.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Verify Mock implements Player at compile time.
var _ Player = (*Mock)(nil)
