// Package summary provides HTTP handlers for generating, saving, listing,
// and reading video summaries. All routes require bearer authentication;
// record reads are scoped to the authenticated account.
package summary

import (
	"time"

	sumUC "vidbrief/internal/usecase/summary"
)

type generateRequest struct {
	Content  string `json:"content"`
	Metadata struct {
		VideoID string `json:"videoId"`
		URL     string `json:"url"`
		Title   string `json:"title"`
	} `json:"metadata"`
}

type generateResponse struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	KeyPoints        []string `json:"keyPoints"`
	FullSummary      string   `json:"fullSummary"`
	SourceURL        string   `json:"sourceUrl"`
	AlreadySaved     bool     `json:"alreadySaved"`
	CreditsRemaining int      `json:"creditsRemaining"`
}

type saveRequest struct {
	VideoID     string   `json:"videoId"`
	Title       string   `json:"title"`
	KeyPoints   []string `json:"keyPoints"`
	FullSummary string   `json:"fullSummary"`
	SourceURL   string   `json:"sourceUrl"`
	Transcript  string   `json:"transcript"`
}

type saveResponse struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	AlreadySaved bool      `json:"alreadySaved"`
}

// DTO is the public shape of a stored summary record.
type DTO struct {
	ID          int64     `json:"id"`
	VideoID     string    `json:"videoId"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	KeyPoints   []string  `json:"keyPoints"`
	FullSummary string    `json:"fullSummary"`
	CreatedAt   time.Time `json:"createdAt"`
}

// listResponse is the list envelope. Success is false when the read path
// degraded; clients then receive an empty page instead of an error.
type listResponse struct {
	Success   bool  `json:"success"`
	Summaries []DTO `json:"summaries"`
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
}

type transcriptResponse struct {
	Transcript string `json:"transcript"`
}

func toDTO(v sumUC.View) DTO {
	return DTO{
		ID:          v.ID,
		VideoID:     v.VideoID,
		SourceURL:   v.SourceURL,
		Title:       v.Title,
		KeyPoints:   v.KeyPoints,
		FullSummary: v.FullSummary,
		CreatedAt:   v.CreatedAt,
	}
}
