package player

import (
	"context"
	"log/slog"
	"sync"
)

// Queue plays audio chunks strictly in the order they were enqueued.
//
// Chunks are appended with Enqueue, which never blocks; a single drain
// goroutine consumes them one at a time, playing each to completion before
// starting the next. At most one playback session is active at any instant.
// A failed chunk is reported through the error callback and skipped so
// one corrupt chunk cannot stall the rest of the stream.
//
// A Queue is owned by whichever component manages a conversation turn;
// construct one per session and Close it when the session ends.
type Queue struct {
	player Player
	logger *slog.Logger
	onErr  func(error)

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending [][]byte
	active  bool
	closed  bool
	idleCh  chan struct{} // closed while the queue is idle

	wg sync.WaitGroup
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithQueueLogger sets the structured logger for the queue.
func WithQueueLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) {
		q.logger = logger.With("component", "player.queue")
	}
}

// WithOnError sets the out-of-band callback invoked when a chunk fails to
// decode or play. Enqueue never returns errors; this is where they go.
func WithOnError(fn func(error)) QueueOption {
	return func(q *Queue) {
		q.onErr = fn
	}
}

// NewQueue creates an empty queue that plays through the given player.
func NewQueue(p Player, opts ...QueueOption) *Queue {
	ctx, cancel := context.WithCancel(context.Background())

	idle := make(chan struct{})
	close(idle)

	q := &Queue{
		player: p,
		logger: slog.Default().With("component", "player.queue"),
		ctx:    ctx,
		cancel: cancel,
		idleCh: idle,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a chunk to the tail of the pending sequence and starts
// the drain process if the queue is idle. It never blocks; the chunk is
// consumed asynchronously. Empty chunks are ignored.
func (q *Queue) Enqueue(chunk []byte) {
	if len(chunk) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.pending = append(q.pending, chunk)

	if !q.active {
		q.active = true
		q.idleCh = make(chan struct{})
		q.wg.Add(1)
		go q.drain()
	}
}

// Clear discards all pending chunks. The chunk currently playing, if any,
// is not preempted; only future dequeues are cancelled. Idempotent.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) > 0 {
		q.logger.Debug("queue cleared", "dropped", len(q.pending))
	}
	q.pending = nil
}

// drain consumes pending chunks one at a time until the queue is empty.
// Only one drain goroutine runs at a time; it exits (marking the queue
// idle) instead of busy-waiting when there is nothing left to play.
func (q *Queue) drain() {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		if len(q.pending) == 0 || q.closed {
			q.active = false
			close(q.idleCh)
			q.mu.Unlock()
			return
		}
		chunk := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		if err := q.player.Play(q.ctx, chunk); err != nil {
			q.logger.Warn("chunk playback failed, skipping",
				"bytes", len(chunk),
				"error", err,
			)
			if q.onErr != nil {
				q.onErr(err)
			}
		}
	}
}

// Wait blocks until the queue has played everything and gone idle, or the
// context is cancelled.
func (q *Queue) Wait(ctx context.Context) error {
	for {
		q.mu.Lock()
		ch := q.idleCh
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}

		// Idle observed; stop unless a chunk slipped in meanwhile.
		q.mu.Lock()
		again := q.active
		q.mu.Unlock()
		if !again {
			return nil
		}
	}
}

// Len returns the number of pending (not yet started) chunks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Playing reports whether a drain is in progress.
func (q *Queue) Playing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active
}

// Close discards pending chunks, waits for the in-flight chunk to finish
// and shuts the queue down. The queue cannot be reused after Close.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.pending = nil
	q.mu.Unlock()

	q.wg.Wait()
	q.cancel()
	return nil
}
