package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
// Pre-compiled at initialization so normalization stays cheap on the hot path.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/summary/\d+/transcript$`), Template: "/api/summary/:id/transcript"},
	{Pattern: regexp.MustCompile(`^/api/summary/\d+$`), Template: "/api/summary/:id"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths with IDs (e.g., /api/summary/123) to template format
// (e.g., /api/summary/:id). Static paths remain unchanged.
//
// Examples:
//
//	NormalizePath("/api/summary/123")            // "/api/summary/:id"
//	NormalizePath("/api/summary/123/transcript") // "/api/summary/:id/transcript"
//	NormalizePath("/api/summary/123?page=1")     // "/api/summary/:id"
//	NormalizePath("/health")                     // "/health" (unchanged)
//	NormalizePath("/api/auth/signin")            // "/api/auth/signin" (unchanged)
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// No match found. Static paths like /health, /metrics, and the auth
	// endpoints pass through unchanged.
	return path
}
