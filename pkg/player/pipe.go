package player

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// PipePlayer streams each chunk to the decoder command's stdin.
// No temporary file is created; the chunk stays in memory.
type PipePlayer struct {
	cfg    Config
	logger *slog.Logger
}

// NewPipePlayer creates an in-memory player.
func NewPipePlayer(cfg Config, logger *slog.Logger) *PipePlayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipePlayer{
		cfg:    cfg,
		logger: logger.With("component", "player.pipe"),
	}
}

// Play pipes the chunk into the decoder and blocks until it exits.
func (p *PipePlayer) Play(ctx context.Context, chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	args := append(append([]string(nil), p.cfg.Args...), "-i", "-")
	cmd := exec.CommandContext(ctx, p.cfg.Command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start decoder: %w", err)
	}

	p.logger.Debug("playing chunk", "bytes", len(chunk))

	if _, err := stdin.Write(chunk); err != nil {
		stdin.Close()
		cmd.Wait()
		return fmt.Errorf("write to decoder: %w", err)
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("decode chunk (%d bytes): %w", len(chunk), err)
	}
	return nil
}

// Name returns "pipe".
func (p *PipePlayer) Name() string {
	return "pipe"
}

// Close releases resources.
func (p *PipePlayer) Close() error {
	return nil
}

// Verify PipePlayer implements Player at compile time.
var _ Player = (*PipePlayer)(nil)
