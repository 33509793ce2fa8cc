package ollama

import (
	"time"

	"github.com/huvtsp/alumni/internal/config"
)

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() config.OllamaConfig {
	return config.OllamaConfig{
		BaseURL:                 "http://localhost:11434",
		DefaultModelNames:       []string{"nomic-embed-text"},
		Timeout:                 30 * time.Second,
		Retries:                 3,
		Backoff:                 500 * time.Millisecond,
		CircuitFailureThreshold: 5,
		CircuitReset:            30 * time.Second,
	}
}
