package summarizer

import "strings"

// Provider response section markers. Providers are prompted to emit these,
// but responses drift, so parsing stays tolerant.
const (
	summaryHeader   = "SUMMARY:"
	keyPointsHeader = "KEY POINTS:"
)

// ParseProviderText converts free-form provider output into a StructuredSummary.
// When the response carries the SUMMARY:/KEY POINTS: marker pair, the sections
// are split on those markers. Otherwise the first line becomes the summary and
// the remaining lines become key points with leading bullets stripped.
// It never fails on malformed text, only degrades.
func ParseProviderText(raw string, meta Metadata) StructuredSummary {
	out := StructuredSummary{Title: fallbackTitle(meta)}

	summaryIdx := strings.Index(raw, summaryHeader)
	pointsIdx := strings.Index(raw, keyPointsHeader)

	if summaryIdx >= 0 && pointsIdx >= 0 {
		var summarySection, pointsSection string
		if summaryIdx < pointsIdx {
			summarySection = raw[summaryIdx+len(summaryHeader) : pointsIdx]
			pointsSection = raw[pointsIdx+len(keyPointsHeader):]
		} else {
			pointsSection = raw[pointsIdx+len(keyPointsHeader) : summaryIdx]
			summarySection = raw[summaryIdx+len(summaryHeader):]
		}
		out.FullSummary = strings.TrimSpace(summarySection)
		out.KeyPoints = parseBulletLines(pointsSection)
	} else {
		lines := nonEmptyLines(raw)
		if len(lines) > 0 {
			out.FullSummary = lines[0]
			out.KeyPoints = stripBullets(lines[1:])
		}
	}

	if out.FullSummary == "" && len(out.KeyPoints) > 0 {
		// A response of only bullets still needs a prose body.
		out.FullSummary = strings.Join(out.KeyPoints, " ")
	}
	return out
}

// parseBulletLines extracts non-empty bullet items from a section of text.
func parseBulletLines(section string) []string {
	return stripBullets(nonEmptyLines(section))
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func stripBullets(lines []string) []string {
	var out []string
	for _, line := range lines {
		point := strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		if point != "" {
			out = append(out, point)
		}
	}
	return out
}

// fallbackTitle derives a display title when provider output carries none.
func fallbackTitle(meta Metadata) string {
	if t := strings.TrimSpace(meta.Title); t != "" {
		return t
	}
	if meta.VideoID != "" {
		return "Video " + meta.VideoID
	}
	return "Untitled Video"
}
