package summarizer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"vidbrief/internal/utils/text"
)

const (
	// minProviderRunes is the minimum transcript length worth a provider call.
	// Anything shorter goes straight to the heuristic fallback.
	minProviderRunes = 100

	// generateTimeout bounds the total wait on the external provider,
	// including rate limiter queueing and retries. It must stay below the
	// 30s request timeout in cmd/api so a provider stall still leaves time
	// to write the fallback summary to the client.
	generateTimeout = 20 * time.Second
)

// Generator produces structured summaries from transcripts.
// It wraps an optional Provider with rate limiting and a bounded wait,
// and guarantees a usable result: any provider failure is absorbed into
// the deterministic heuristic fallback.
type Generator struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewGenerator creates a Generator around the given provider.
// A nil provider is valid: every request then uses the fallback.
func NewGenerator(provider Provider) *Generator {
	// 1 req/s with small bursts keeps provider spend predictable.
	return &Generator{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(1), 3),
	}
}

// Generate returns a structured summary for the transcript. It never fails:
// short transcripts, provider errors, and unusable provider output all
// degrade to the heuristic fallback.
func (g *Generator) Generate(ctx context.Context, transcript string, meta Metadata) StructuredSummary {
	if g.provider == nil || text.CountRunes(transcript) < minProviderRunes {
		return HeuristicSummary(transcript, meta)
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		slog.Warn("rate limiter wait aborted, using fallback summary",
			slog.String("video_id", meta.VideoID),
			slog.String("error", err.Error()))
		return HeuristicSummary(transcript, meta)
	}

	raw, err := g.provider.Summarize(ctx, transcript)
	if err != nil {
		slog.Warn("provider summarization failed, using fallback summary",
			slog.String("video_id", meta.VideoID),
			slog.String("error", err.Error()))
		return HeuristicSummary(transcript, meta)
	}

	parsed := ParseProviderText(raw, meta)
	if strings.TrimSpace(parsed.FullSummary) == "" {
		slog.Warn("provider returned unusable output, using fallback summary",
			slog.String("video_id", meta.VideoID))
		return HeuristicSummary(transcript, meta)
	}

	return parsed
}
