package summarizer

import "strings"

const (
	// minSentenceRunes filters out fragments too short to be useful key points.
	minSentenceRunes = 20

	// maxFallbackPoints caps how many sentences the heuristic promotes to key points.
	maxFallbackPoints = 8

	// fallbackSentinel is returned when the transcript yields no usable sentences.
	// Output must stay non-empty so the pipeline always receives a well-formed summary.
	fallbackSentinel = "A summary could not be generated for this video."
)

// HeuristicSummary builds a deterministic local summary from a transcript.
// It is used whenever the external provider fails, is misconfigured, or the
// transcript is too short for a provider call. It never returns empty output.
func HeuristicSummary(transcript string, meta Metadata) StructuredSummary {
	out := StructuredSummary{Title: fallbackTitle(meta)}

	sentences := splitSentences(transcript)

	limit := len(sentences)
	if limit > maxFallbackPoints {
		limit = maxFallbackPoints
	}

	if limit == 0 {
		out.KeyPoints = []string{fallbackSentinel}
		out.FullSummary = fallbackSentinel
		return out
	}

	out.KeyPoints = sentences[:limit]
	out.FullSummary = strings.Join(out.KeyPoints, " ")
	return out
}

// splitSentences breaks text on sentence delimiters and drops short fragments.
func splitSentences(s string) []string {
	var (
		sentences []string
		current   strings.Builder
	)

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		current.Reset()
		if len([]rune(sentence)) >= minSentenceRunes {
			sentences = append(sentences, sentence)
		}
	}

	for _, r := range s {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return sentences
}
