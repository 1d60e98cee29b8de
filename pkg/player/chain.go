package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoPlayers is returned when a chain is created without players.
var ErrNoPlayers = errors.New("player: no players available")

// Chain implements Player by trying multiple players in order.
// Each chunk is offered to the players in sequence until one plays it;
// if all fail, Play returns an aggregate error.
type Chain struct {
	players []Player
	logger  *slog.Logger
}

// NewChain creates a player chain that tries players in order.
// At least one player is required.
func NewChain(players ...Player) (*Chain, error) {
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}
	return &Chain{
		players: players,
		logger:  slog.Default().With("component", "player.chain"),
	}, nil
}

// NewChainWithLogger creates a player chain with a custom logger.
func NewChainWithLogger(logger *slog.Logger, players ...Player) (*Chain, error) {
	chain, err := NewChain(players...)
	if err != nil {
		return nil, err
	}
	chain.logger = logger.With("component", "player.chain")
	return chain, nil
}

// Play tries each player until one succeeds.
func (c *Chain) Play(ctx context.Context, chunk []byte) error {
	var errs []error

	for i, p := range c.players {
		err := p.Play(ctx, chunk)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback player succeeded",
					"player", p.Name(),
					"bytes", len(chunk),
				)
			}
			return nil
		}

		errs = append(errs, err)
		c.logger.Warn("player failed, trying next",
			"player", p.Name(),
			"error", err,
		)

		// Check if context was cancelled
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return &ChainError{Errors: errs}
}

// Name returns "chain".
func (c *Chain) Name() string {
	return "chain"
}

// Close closes all players.
func (c *Chain) Close() error {
	var lastErr error
	for _, p := range c.players {
		if err := p.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Players returns the list of players in the chain.
func (c *Chain) Players() []Player {
	return c.players
}

// ChainError aggregates errors from all players in a chain.
type ChainError struct {
	Errors []error
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	if len(e.Errors) == 0 {
		return "player chain: no errors recorded"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("player chain: %v", e.Errors[0])
	}
	return fmt.Sprintf("player chain: all %d players failed, last error: %v", len(e.Errors), e.Errors[len(e.Errors)-1])
}

// Unwrap returns the last error in the chain.
func (e *ChainError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// Verify Chain implements Player at compile time.
var _ Player = (*Chain)(nil)
