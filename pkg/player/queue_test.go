package player_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/quest-of-seoul/go-docent/pkg/player"
)

// gatePlayer blocks each playback until the test releases it, so tests can
// control exactly when a chunk is "playing".
type gatePlayer struct {
	mu      sync.Mutex
	started []string
	release chan struct{}
}

func newGatePlayer() *gatePlayer {
	return &gatePlayer{release: make(chan struct{}, 16)}
}

func (g *gatePlayer) Play(ctx context.Context, chunk []byte) error {
	g.mu.Lock()
	g.started = append(g.started, string(chunk))
	g.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.release:
		return nil
	}
}

func (g *gatePlayer) Started() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.started...)
}

func (g *gatePlayer) Name() string { return "gate" }
func (g *gatePlayer) Close() error { return nil }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestQueueOrdering(t *testing.T) {
	mock := player.NewMock(player.WithPlayDelay(2 * time.Millisecond))
	q := player.NewQueue(mock)
	defer q.Close()

	var want [][]byte
	for i := 0; i < 10; i++ {
		chunk := []byte(fmt.Sprintf("chunk-%d", i))
		want = append(want, chunk)
		q.Enqueue(chunk)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	played := mock.Played()
	if len(played) != len(want) {
		t.Fatalf("expected %d chunks played, got %d", len(want), len(played))
	}
	for i := range want {
		if string(played[i]) != string(want[i]) {
			t.Errorf("position %d: expected %s, got %s", i, want[i], played[i])
		}
	}

	// Each chunk must finish before the next one starts.
	events := mock.Events()
	lastFinished := -1
	for _, ev := range events {
		switch ev.Kind {
		case player.EventStart:
			if ev.Index != lastFinished+1 {
				t.Errorf("chunk %d started before chunk %d finished", ev.Index, lastFinished+1)
			}
		case player.EventFinish:
			lastFinished = ev.Index
		}
	}
}

func TestQueueNoOverlap(t *testing.T) {
	mock := player.NewMock(player.WithPlayDelay(time.Millisecond))
	q := player.NewQueue(mock)
	defer q.Close()

	// Enqueue from multiple goroutines while draining is in progress.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				q.Enqueue([]byte(fmt.Sprintf("g%d-%d", n, j)))
			}
		}(i)
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if got := mock.MaxActive(); got != 1 {
		t.Errorf("expected at most 1 active session, observed %d", got)
	}
	if got := len(mock.Played()); got != 20 {
		t.Errorf("expected 20 chunks played, got %d", got)
	}
}

func TestQueueClear(t *testing.T) {
	gate := newGatePlayer()
	q := player.NewQueue(gate)
	defer q.Close()

	q.Enqueue([]byte("c1"))
	waitFor(t, "c1 to start", func() bool { return len(gate.Started()) == 1 })

	q.Enqueue([]byte("c2"))
	q.Enqueue([]byte("c3"))

	// Clear while c1 is still playing: c2 and c3 must never start.
	q.Clear()
	q.Clear() // idempotent

	if got := q.Len(); got != 0 {
		t.Errorf("expected empty pending queue, got %d", got)
	}

	gate.release <- struct{}{} // let c1 finish

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	started := gate.Started()
	if len(started) != 1 || started[0] != "c1" {
		t.Errorf("expected only c1 to start, got %v", started)
	}
}

func TestQueueFaultIsolation(t *testing.T) {
	failErr := errors.New("corrupt chunk")
	mock := player.NewMock(player.WithFailFunc(func(index int, chunk []byte) error {
		if index == 1 {
			return failErr
		}
		return nil
	}))

	var mu sync.Mutex
	var reported []error
	q := player.NewQueue(mock, player.WithOnError(func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	}))
	defer q.Close()

	for i := 0; i < 4; i++ {
		q.Enqueue([]byte(fmt.Sprintf("chunk-%d", i)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.Wait(ctx); err != nil {
		t.Fatalf("queue deadlocked after chunk failure: %v", err)
	}

	played := mock.Played()
	want := []string{"chunk-0", "chunk-2", "chunk-3"}
	if len(played) != len(want) {
		t.Fatalf("expected %d chunks played, got %d", len(want), len(played))
	}
	for i, w := range want {
		if string(played[i]) != w {
			t.Errorf("position %d: expected %s, got %s", i, w, played[i])
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reported) != 1 || !errors.Is(reported[0], failErr) {
		t.Errorf("expected one reported failure, got %v", reported)
	}
}

func TestQueueRestartsAfterIdle(t *testing.T) {
	mock := player.NewMock()
	q := player.NewQueue(mock)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q.Enqueue([]byte("first"))
	if err := q.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	// A fresh enqueue after the queue went idle must trigger a new drain.
	q.Enqueue([]byte("second"))
	if err := q.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if got := len(mock.Played()); got != 2 {
		t.Errorf("expected 2 chunks played, got %d", got)
	}
}

func TestQueueIgnoresEmptyChunks(t *testing.T) {
	mock := player.NewMock()
	q := player.NewQueue(mock)
	defer q.Close()

	q.Enqueue(nil)
	q.Enqueue([]byte{})

	if q.Playing() {
		t.Error("expected queue to stay idle for empty chunks")
	}
	if got := len(mock.Played()); got != 0 {
		t.Errorf("expected nothing played, got %d", got)
	}
}

func TestQueueCloseStopsEnqueue(t *testing.T) {
	mock := player.NewMock()
	q := player.NewQueue(mock)

	q.Enqueue([]byte("before"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	q.Enqueue([]byte("after"))

	if got := len(mock.Played()); got != 1 {
		t.Errorf("expected 1 chunk played, got %d", got)
	}
}
