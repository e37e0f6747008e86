package summarizer

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	// minCharLimit is the minimum allowed character limit for summaries.
	minCharLimit = 100

	// maxCharLimit is the maximum allowed character limit for summaries.
	maxCharLimit = 5000

	defaultCharLimit = 900

	// defaultMaxInputRunes bounds the transcript portion of a prompt.
	defaultMaxInputRunes = 10000
)

// Config holds shared configuration for summarization providers.
type Config struct {
	// CharacterLimit is the maximum number of characters requested of a summary.
	// Loaded from SUMMARIZER_CHAR_LIMIT (range 100-5000, default 900).
	CharacterLimit int

	// Model is the provider model identifier.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout is the maximum duration for a single API call.
	Timeout time.Duration

	// MaxInputRunes bounds the transcript length sent to the provider.
	MaxInputRunes int
}

// ValidateCharacterLimit validates that the limit is within the valid range.
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit {
		return fmt.Errorf("character limit %d is below minimum %d", limit, minCharLimit)
	}
	if limit > maxCharLimit {
		return fmt.Errorf("character limit %d exceeds maximum %d", limit, maxCharLimit)
	}
	return nil
}

// Validate checks all configuration fields.
func (c Config) Validate() error {
	if err := ValidateCharacterLimit(c.CharacterLimit); err != nil {
		return fmt.Errorf("invalid character limit: %w", err)
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// loadCharacterLimit reads SUMMARIZER_CHAR_LIMIT with warn-and-default behavior.
func loadCharacterLimit() int {
	envLimit := os.Getenv("SUMMARIZER_CHAR_LIMIT")
	if envLimit == "" {
		return defaultCharLimit
	}

	parsed, err := strconv.Atoi(envLimit)
	if err != nil {
		slog.Warn("Invalid SUMMARIZER_CHAR_LIMIT format, using default",
			slog.String("value", envLimit),
			slog.Int("default", defaultCharLimit),
			slog.String("error", err.Error()))
		return defaultCharLimit
	}
	if err := ValidateCharacterLimit(parsed); err != nil {
		slog.Warn("SUMMARIZER_CHAR_LIMIT out of valid range, using default",
			slog.Int("value", parsed),
			slog.Int("default", defaultCharLimit))
		return defaultCharLimit
	}
	return parsed
}
