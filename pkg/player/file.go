package player

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// FilePlayer materializes each chunk into a temporary file and hands it to
// an external decoder command. The file is removed once playback finishes,
// whether or not it succeeded.
type FilePlayer struct {
	cfg    Config
	logger *slog.Logger
}

// NewFilePlayer creates a file-backed player.
func NewFilePlayer(cfg Config, logger *slog.Logger) *FilePlayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilePlayer{
		cfg:    cfg,
		logger: logger.With("component", "player.file"),
	}
}

// Play writes the chunk to a temporary file, runs the decoder on it and
// blocks until the decoder exits.
func (p *FilePlayer) Play(ctx context.Context, chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	path := filepath.Join(p.cfg.TempDir, fmt.Sprintf("docent_chunk_%s.mp3", uuid.NewString()))
	if err := os.WriteFile(path, chunk, 0o600); err != nil {
		return fmt.Errorf("write chunk file: %w", err)
	}
	defer os.Remove(path)

	args := append(append([]string(nil), p.cfg.Args...), path)
	cmd := exec.CommandContext(ctx, p.cfg.Command, args...)

	p.logger.Debug("playing chunk", "bytes", len(chunk), "path", path)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("decode chunk (%d bytes): %w", len(chunk), err)
	}
	return nil
}

// Name returns "file".
func (p *FilePlayer) Name() string {
	return "file"
}

// Close releases resources.
func (p *FilePlayer) Close() error {
	return nil
}

// Verify FilePlayer implements Player at compile time.
var _ Player = (*FilePlayer)(nil)
