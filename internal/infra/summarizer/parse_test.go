package summarizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseProviderText_WithMarkers(t *testing.T) {
	raw := "SUMMARY:\nThis video covers Go concurrency patterns in depth.\nKEY POINTS:\n- goroutines are cheap\n- channels coordinate work\n- select multiplexes"

	got := ParseProviderText(raw, Metadata{VideoID: "abc123", Title: "Go Talk"})

	want := StructuredSummary{
		Title:       "Go Talk",
		KeyPoints:   []string{"goroutines are cheap", "channels coordinate work", "select multiplexes"},
		FullSummary: "This video covers Go concurrency patterns in depth.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseProviderText mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProviderText_MarkersReversed(t *testing.T) {
	raw := "KEY POINTS:\n- first point\n- second point\nSUMMARY:\nThe prose body."

	got := ParseProviderText(raw, Metadata{Title: "T"})

	assert.Equal(t, "The prose body.", got.FullSummary)
	assert.Equal(t, []string{"first point", "second point"}, got.KeyPoints)
}

func TestParseProviderText_NoMarkers(t *testing.T) {
	raw := "A concise overview of the video.\n- takeaway one\n* takeaway two\nplain third line"

	got := ParseProviderText(raw, Metadata{VideoID: "v1"})

	assert.Equal(t, "A concise overview of the video.", got.FullSummary)
	assert.Equal(t, []string{"takeaway one", "takeaway two", "plain third line"}, got.KeyPoints)
	assert.Equal(t, "Video v1", got.Title)
}

func TestParseProviderText_OnlyBullets(t *testing.T) {
	raw := "SUMMARY:\nKEY POINTS:\n- only point"

	got := ParseProviderText(raw, Metadata{Title: "T"})

	// Prose body is synthesized from the bullets so it is never empty.
	assert.Equal(t, "only point", got.FullSummary)
	assert.Equal(t, []string{"only point"}, got.KeyPoints)
}

func TestParseProviderText_EmptyInput(t *testing.T) {
	got := ParseProviderText("", Metadata{})

	assert.Equal(t, "Untitled Video", got.Title)
	assert.Empty(t, got.FullSummary)
	assert.Empty(t, got.KeyPoints)
}

func TestFallbackTitle(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
		want string
	}{
		{"metadata title wins", Metadata{Title: "My Talk", VideoID: "x"}, "My Talk"},
		{"whitespace title ignored", Metadata{Title: "  ", VideoID: "x"}, "Video x"},
		{"video id fallback", Metadata{VideoID: "dQw4w9WgXcQ"}, "Video dQw4w9WgXcQ"},
		{"nothing at all", Metadata{}, "Untitled Video"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fallbackTitle(tt.meta))
		})
	}
}
