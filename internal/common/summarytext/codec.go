// Package summarytext encodes and decodes the stored summary body.
//
// A summary is persisted as a single text blob packing title, key points,
// and prose:
//
//	<title>
//
//	Key Points:
//	- <point 1>
//	- <point 2>
//
//	<prose body>
//
// The format carries no version tag, so Decode is deliberately tolerant:
// any blob lacking the key-points marker is treated as plain prose with an
// empty title and no key points. Every read path must go through this
// package; do not re-implement the splitting at call sites.
package summarytext

import "strings"

const (
	// keyPointsMarker separates the title block from the key-point list.
	keyPointsMarker = "Key Points:"

	// bulletPrefix marks a single key point line.
	bulletPrefix = "- "

	sectionSeparator = "\n\n"
)

// Document is the structured form of an encoded summary body.
type Document struct {
	Title     string
	KeyPoints []string
	Prose     string
}

// Encode packs a document into the stored blob format.
// Encode and Decode round-trip for any title without newlines, any
// non-empty ordered key-point list, and any prose body.
func Encode(doc Document) string {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString(sectionSeparator)
	b.WriteString(keyPointsMarker)
	for _, point := range doc.KeyPoints {
		b.WriteString("\n")
		b.WriteString(bulletPrefix)
		b.WriteString(point)
	}
	b.WriteString(sectionSeparator)
	b.WriteString(doc.Prose)
	return b.String()
}

// Decode unpacks a stored blob into its structured form. It never fails:
// if the key-points marker is absent the whole blob becomes the prose body.
// Extracted key points are whitespace-trimmed and empty ones are dropped.
func Decode(blob string) Document {
	markerIdx := strings.Index(blob, keyPointsMarker)
	if markerIdx < 0 {
		return Document{Prose: blob}
	}

	title := strings.TrimSpace(blob[:markerIdx])
	rest := blob[markerIdx+len(keyPointsMarker):]

	// Key points run until the first blank line after the marker;
	// everything beyond that is the prose body, kept verbatim.
	var pointsBlock, prose string
	if parts := strings.SplitN(rest, sectionSeparator, 2); len(parts) == 2 {
		pointsBlock, prose = parts[0], parts[1]
	} else {
		pointsBlock = rest
	}

	var points []string
	for _, line := range strings.Split(pointsBlock, "\n") {
		trimmed := strings.TrimSpace(line)
		point := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
		if point != "" {
			points = append(points, point)
		}
	}

	return Document{
		Title:     title,
		KeyPoints: points,
		Prose:     prose,
	}
}
