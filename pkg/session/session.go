// Package session ties a docent client and an audio playback queue into
// one conversational session. A session holds the chat history, streams
// replies into the queue as chunks arrive, and guarantees at most one
// chunk is audible at a time.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quest-of-seoul/go-docent/pkg/docent"
	"github.com/quest-of-seoul/go-docent/pkg/player"
)

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("session: closed")

// Exchange is one prompt/reply pair in the session history.
type Exchange struct {
	ID       string
	Prompt   string
	Reply    string
	Landmark string
	Chunks   int // audio chunks received for the reply
	At       time.Time
}

// Session is a single user's conversation with the docent. Safe for
// concurrent use; playback ordering is delegated to the queue.
type Session struct {
	id       string
	userID   string
	language string
	client   *docent.Client
	queue    *player.Queue
	logger   *slog.Logger

	mu      sync.Mutex
	history []Exchange
	closed  bool
}

// Option is a functional option for configuring a session.
type Option func(*Session)

// WithUserID sets the backend user id for the session.
func WithUserID(userID string) Option {
	return func(s *Session) {
		s.userID = userID
	}
}

// WithLanguage sets the reply language.
func WithLanguage(language string) Option {
	return func(s *Session) {
		s.language = language
	}
}

// WithSessionLogger sets the structured logger.
func WithSessionLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger.With("component", "session")
	}
}

// New creates a session that plays replies through p. The session owns
// the playback queue it creates; Close tears it down.
func New(client *docent.Client, p player.Player, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		userID:   uuid.NewString(),
		language: "en",
		client:   client,
		logger:   slog.Default().With("component", "session"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.queue = player.NewQueue(p,
		player.WithQueueLogger(s.logger),
		player.WithOnError(func(err error) {
			s.logger.Warn("chunk playback failed, continuing", "error", err)
		}),
	)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Ask sends the user's message about a landmark and streams the spoken
// reply into the queue. Any audio still pending from an earlier exchange
// is dropped first, so the new reply is not queued behind stale chunks.
// Returns the reply text as soon as the exchange completes; playback may
// still be running.
func (s *Session) Ask(ctx context.Context, landmark, text string) (string, error) {
	if s.isClosed() {
		return "", ErrSessionClosed
	}

	s.queue.Clear()

	result, err := s.client.ChatStream(ctx, docent.ChatRequest{
		UserID:      s.userID,
		Landmark:    landmark,
		UserMessage: text,
		Language:    s.language,
		EnableTTS:   true,
	}, docent.StreamHandlers{
		OnAudioChunk: s.queue.Enqueue,
	})
	if err != nil {
		return "", err
	}

	s.record(Exchange{
		ID:       uuid.NewString(),
		Prompt:   text,
		Reply:    result.Message,
		Landmark: result.Landmark,
		Chunks:   len(result.Chunks),
		At:       time.Now(),
	})
	return result.Message, nil
}

// Speak synthesizes text and streams it into the queue without touching
// the chat history.
func (s *Session) Speak(ctx context.Context, text string) error {
	if s.isClosed() {
		return ErrSessionClosed
	}

	_, err := s.client.SpeakStream(ctx, docent.TTSRequest{
		Text:         text,
		LanguageCode: s.language,
	}, s.queue.Enqueue)
	return err
}

// Interrupt drops all pending audio. A chunk already playing finishes.
func (s *Session) Interrupt() {
	s.queue.Clear()
}

// Wait blocks until queued playback drains or ctx expires.
func (s *Session) Wait(ctx context.Context) error {
	return s.queue.Wait(ctx)
}

// History returns a copy of the exchanges so far, oldest first.
func (s *Session) History() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Exchange, len(s.history))
	copy(out, s.history)
	return out
}

// Close tears down the session and its playback queue. In-flight
// playback finishes; pending chunks are dropped.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.queue.Close()
}

func (s *Session) record(e Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, e)
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
