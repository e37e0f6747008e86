package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ExtractID extracts and parses an integer ID from a URL path.
// It removes the specified prefix and attempts to parse the remaining string as an int64.
//
// Example:
//
//	id, err := ExtractID("/api/summary/123", "/api/summary/")
//	// Returns: 123, nil
func ExtractID(path, prefix string) (int64, error) {
	idStr := strings.TrimPrefix(path, prefix)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ExtractIDWithSuffix extracts an integer ID from a path of the form
// prefix + id + suffix, e.g. "/api/summary/123/transcript".
func ExtractIDWithSuffix(path, prefix, suffix string) (int64, error) {
	idStr := strings.TrimPrefix(path, prefix)
	idStr, found := strings.CutSuffix(idStr, suffix)
	if !found {
		return 0, ErrInvalidID
	}
	return ExtractID(idStr, "")
}
