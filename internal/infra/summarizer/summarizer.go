// Package summarizer provides AI-powered video transcript summarization.
// It includes adapters for OpenAI and Claude (Anthropic) APIs with reliability
// patterns, a deterministic heuristic fallback, and Prometheus observability.
package summarizer

import "context"

// Provider generates raw summary text for a video transcript.
// Implementations wrap a single AI API and may fail; the Generator
// adapter layers the fallback on top.
type Provider interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Metadata describes the video a transcript belongs to.
// It is passed to the generator so prompts and fallbacks can name the video.
type Metadata struct {
	VideoID string
	Title   string
	URL     string
}

// StructuredSummary is the normalized output of a generation run,
// regardless of whether a provider or the heuristic fallback produced it.
type StructuredSummary struct {
	// Title is the display title for the summary. Never empty.
	Title string

	// KeyPoints are short highlight sentences, possibly empty.
	KeyPoints []string

	// FullSummary is the prose body. Never empty.
	FullSummary string
}
