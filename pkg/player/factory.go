package player

import (
	"fmt"
	"log/slog"
)

// New creates an audio player with the given configuration.
// If cfg.Backend is BackendAuto, the file-backed backend is selected.
func New(cfg Config, logger *slog.Logger) (Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	backend := cfg.Backend
	if backend == BackendAuto {
		backend = BackendFile
	}

	logger.Info("creating audio player",
		"backend", backend,
		"command", cfg.Command,
	)

	switch backend {
	case BackendMock:
		return NewMock(), nil
	case BackendFile:
		return NewFilePlayer(cfg, logger), nil
	case BackendPipe:
		return NewPipePlayer(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}
