package docent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// doneSentinel is the text frame the backend sends after the last audio
// chunk of an exchange.
const doneSentinel = "DONE"

// exchange runs one request/response cycle on a streaming endpoint: dial,
// send the request, then consume frames until the done sentinel. Exactly
// one attempt; a failed dial or a dropped connection is returned to the
// caller, never retried.
//
// Text frames are decoded as TextFrame and handed to onText; binary
// frames are raw audio chunks handed to onChunk in arrival order. An
// error frame rejects the whole exchange with *StreamError.
func (c *Client) exchange(ctx context.Context, path string, request any, onText func(TextFrame), onChunk func([]byte)) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.dialTO,
	}

	conn, _, err := dialer.DialContext(ctx, c.wsBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("docent: dial %s: %w", path, err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the context is cancelled mid-exchange.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.SetReadDeadline(time.Now())
			conn.Close()
		case <-done:
		}
	}()

	if err := conn.WriteJSON(request); err != nil {
		return fmt.Errorf("docent: send request: %w", err)
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure, websocket.CloseGoingAway) {
				return fmt.Errorf("%w: %v", ErrExchangeClosed, err)
			}
			return fmt.Errorf("docent: read frame: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if string(data) == doneSentinel {
				return nil
			}

			var frame TextFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				c.logger.Debug("ignoring non-JSON text frame", "data", string(data))
				continue
			}
			if frame.Error != "" {
				return &StreamError{Message: frame.Error}
			}
			if onText != nil {
				onText(frame)
			}

		case websocket.BinaryMessage:
			if len(data) == 0 {
				continue
			}
			if onChunk != nil {
				onChunk(data)
			}
		}
	}
}

// ChatStream asks the docent about a landmark over the streaming chat
// endpoint. The reply text arrives first, then the TTS audio chunks; the
// handlers fire as frames arrive, and the collected result is returned
// once the exchange completes.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest, handlers StreamHandlers) (*ChatResult, error) {
	result := &ChatResult{}

	onText := func(frame TextFrame) {
		if frame.Type != "text" {
			return
		}
		result.Message = frame.Message
		result.Landmark = frame.Landmark
		if handlers.OnText != nil {
			handlers.OnText(frame)
		}
	}
	onChunk := func(chunk []byte) {
		result.Chunks = append(result.Chunks, chunk)
		if handlers.OnAudioChunk != nil {
			handlers.OnAudioChunk(chunk)
		}
	}

	if err := c.exchange(ctx, "/docent/ws/chat", req, onText, onChunk); err != nil {
		return nil, err
	}
	return result, nil
}

// SpeakStream synthesizes text over the streaming TTS endpoint and
// returns the audio chunks in arrival order. onChunk, when non-nil, fires
// per chunk so playback can start before synthesis finishes.
func (c *Client) SpeakStream(ctx context.Context, req TTSRequest, onChunk func([]byte)) ([][]byte, error) {
	var chunks [][]byte

	collect := func(chunk []byte) {
		chunks = append(chunks, chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	if err := c.exchange(ctx, "/docent/ws/tts", req, nil, collect); err != nil {
		return nil, err
	}
	return chunks, nil
}
