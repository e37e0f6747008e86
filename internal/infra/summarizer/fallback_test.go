package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicSummary_BuildsFromSentences(t *testing.T) {
	transcript := "The first sentence explains the overall topic of the video. " +
		"A second sentence adds supporting technical detail! " +
		"Does the third sentence raise an open question? " +
		"Short. " +
		"The final sentence wraps everything up with a conclusion."

	got := HeuristicSummary(transcript, Metadata{Title: "Talk"})

	require.Len(t, got.KeyPoints, 4) // "Short." is under the fragment threshold
	assert.Equal(t, "The first sentence explains the overall topic of the video.", got.KeyPoints[0])
	assert.Equal(t, strings.Join(got.KeyPoints, " "), got.FullSummary)
	assert.Equal(t, "Talk", got.Title)
}

func TestHeuristicSummary_CapsKeyPoints(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("This sentence is long enough to count as a key point. ")
	}

	got := HeuristicSummary(b.String(), Metadata{})

	assert.Len(t, got.KeyPoints, maxFallbackPoints)
}

func TestHeuristicSummary_NearEmptyTranscript(t *testing.T) {
	for _, transcript := range []string{"", "hi", "too short. tiny!"} {
		got := HeuristicSummary(transcript, Metadata{VideoID: "v9"})

		assert.Equal(t, []string{fallbackSentinel}, got.KeyPoints, "transcript %q", transcript)
		assert.Equal(t, fallbackSentinel, got.FullSummary, "transcript %q", transcript)
		assert.Equal(t, "Video v9", got.Title)
	}
}

func TestHeuristicSummary_TrailingFragmentWithoutDelimiter(t *testing.T) {
	transcript := "this trailing text has no sentence delimiter but is clearly long enough to keep"

	got := HeuristicSummary(transcript, Metadata{})

	require.Len(t, got.KeyPoints, 1)
	assert.Equal(t, transcript, got.KeyPoints[0])
}
