// Package player plays streamed audio chunks in strict arrival order.
//
// The package has two halves: a Player, which decodes and plays a single
// opaque audio chunk to completion, and a Queue, which feeds chunks to a
// Player one at a time so that audio arriving asynchronously from a network
// stream is heard in the order it was produced.
//
// Several Player backends are available:
//   - File - writes each chunk to a temporary file and hands it to an
//     external decoder command (most compatible)
//   - Pipe - streams each chunk to the decoder command's stdin, no
//     temporary file
//   - Mock - records chunks for tests, no audio hardware needed
//
// Backends are interchangeable; the queue logic never duplicates across
// them. Use Chain to try backends in order until one succeeds.
//
// Example usage:
//
//	p, _ := player.New(player.DefaultConfig(), nil)
//	q := player.NewQueue(p)
//	defer q.Close()
//
//	q.Enqueue(chunk) // never blocks; plays asynchronously in order
package player

import (
	"context"
	"io"
)

// Player decodes and plays one audio chunk at a time.
// Play owns the playback session for the duration of the call: it blocks
// until the chunk has finished playing (or failed) and all session
// resources are released before it returns.
type Player interface {
	// Play decodes and plays a single chunk to completion.
	// The chunk is an opaque byte buffer; no internal structure is
	// interpreted here.
	Play(ctx context.Context, chunk []byte) error

	// Name returns the backend name (e.g. "file", "pipe", "mock").
	Name() string

	// Close releases all resources.
	io.Closer
}
