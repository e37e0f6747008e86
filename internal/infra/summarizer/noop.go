package summarizer

import (
	"context"

	"vidbrief/internal/utils/text"
)

// NoOp is a provider that echoes the transcript without calling any API.
// Useful for development and tests where real summarization is not needed.
type NoOp struct{}

// NewNoOp creates a new NoOp provider.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns the transcript truncated to the first 500 runes.
func (n *NoOp) Summarize(_ context.Context, transcript string) (string, error) {
	const maxLength = 500
	if text.CountRunes(transcript) <= maxLength {
		return transcript, nil
	}
	return text.TruncateRunes(transcript, maxLength) + "...", nil
}
