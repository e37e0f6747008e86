// Package summary implements the summary generation pipeline: dedup
// lookup, credit check, generation, encoding, and atomic persistence,
// plus the read, save, and delete operations over stored records.
package summary

import "errors"

// Sentinel errors for summary use case operations.
var (
	// ErrSummaryNotFound indicates that the record does not exist or is
	// not owned by the requesting account. The two cases are deliberately
	// indistinguishable so foreign records are never revealed.
	ErrSummaryNotFound = errors.New("summary not found")

	// ErrInvalidSummaryID indicates that the provided summary ID is invalid.
	ErrInvalidSummaryID = errors.New("invalid summary ID")

	// ErrInsufficientCredits indicates that the account has no credits
	// left to pay for a new generation.
	ErrInsufficientCredits = errors.New("insufficient credits")
)
