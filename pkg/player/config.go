package player

import (
	"fmt"
	"os"
)

// Backend represents the audio player backend type.
type Backend string

const (
	// BackendAuto automatically selects the best available backend.
	BackendAuto Backend = "auto"
	// BackendFile writes chunks to temporary files before decoding.
	BackendFile Backend = "file"
	// BackendPipe streams chunks to the decoder over stdin.
	BackendPipe Backend = "pipe"
	// BackendMock uses a mock implementation for testing.
	BackendMock Backend = "mock"
)

// Config holds audio player configuration.
type Config struct {
	// Backend specifies which player backend to use.
	// Default: "auto" (file-backed decoding)
	Backend Backend `json:"backend"`

	// Command is the external decoder command.
	// Default: "ffplay"
	Command string `json:"command"`

	// Args are the arguments passed to the decoder before the input.
	Args []string `json:"args"`

	// TempDir is where the file backend writes chunks.
	// Default: the OS temp directory.
	TempDir string `json:"temp_dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendAuto,
		Command: "ffplay",
		Args:    []string{"-nodisp", "-autoexit", "-loglevel", "quiet"},
		TempDir: os.TempDir(),
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendFile, BackendPipe, BackendMock:
	default:
		return fmt.Errorf("unsupported backend: %s", c.Backend)
	}
	if c.Backend != BackendMock && c.Command == "" {
		return fmt.Errorf("decoder command required for backend %s", c.Backend)
	}
	return nil
}
