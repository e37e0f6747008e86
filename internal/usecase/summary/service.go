package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidbrief/internal/common/pagination"
	"vidbrief/internal/common/summarytext"
	"vidbrief/internal/domain/entity"
	"vidbrief/internal/infra/summarizer"
	"vidbrief/internal/repository"
)

// defaultVideoURL derives the canonical locator when the client sends
// only a video ID.
const defaultVideoURLPrefix = "https://www.youtube.com/watch?v="

// Generator produces structured summaries. Satisfied by *summarizer.Generator;
// injected so tests can substitute a deterministic implementation.
type Generator interface {
	Generate(ctx context.Context, transcript string, meta summarizer.Metadata) summarizer.StructuredSummary
}

// GenerateInput represents the input parameters for a generation request.
type GenerateInput struct {
	AccountID int64
	Content   string
	VideoID   string
	URL       string
	Title     string
}

// GenerateResult is the outcome of a generation request, whether freshly
// generated or short-circuited to an existing record.
type GenerateResult struct {
	ID               int64
	Title            string
	KeyPoints        []string
	FullSummary      string
	SourceURL        string
	AlreadySaved     bool
	CreditsRemaining int
	CreatedAt        time.Time
}

// SaveInput represents a client-supplied, already-structured summary.
type SaveInput struct {
	AccountID   int64
	VideoID     string
	Title       string
	KeyPoints   []string
	FullSummary string
	SourceURL   string
	Transcript  string
}

// SaveResult reports the stored record for an explicit save.
type SaveResult struct {
	ID           int64
	CreatedAt    time.Time
	AlreadySaved bool
}

// View is a stored record decoded for presentation.
type View struct {
	ID          int64
	VideoID     string
	SourceURL   string
	Title       string
	KeyPoints   []string
	FullSummary string
	CreatedAt   time.Time
}

// PaginatedResult carries one page of decoded records with metadata.
type PaginatedResult struct {
	Data       []View
	Pagination pagination.Metadata
}

// Service orchestrates summary generation and owns all record read paths.
type Service struct {
	Summaries repository.SummaryRepository
	Accounts  repository.AccountRepository
	Generator Generator
}

// Generate runs the generation pipeline for one request:
// dedup lookup, credit check, generation, encode, atomic persist+debit.
// An existing record for the same (account, video URL) is returned as-is
// with no new charge. Returns ErrInsufficientCredits when the balance is
// exhausted and entity.ValidationError for malformed input.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, &entity.ValidationError{Field: "content", Message: "content is required"}
	}
	if strings.TrimSpace(in.VideoID) == "" {
		return nil, &entity.ValidationError{Field: "metadata.videoId", Message: "videoId is required"}
	}

	videoURL, err := canonicalURL(in.VideoID, in.URL)
	if err != nil {
		return nil, err
	}

	// Idempotent short-circuit: repeated requests for the same video
	// never charge a second credit.
	existing, err := s.Summaries.GetByAccountAndURL(ctx, in.AccountID, videoURL)
	if err != nil {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	}
	if existing != nil {
		return s.existingResult(ctx, existing)
	}

	credits, err := s.Accounts.Credits(ctx, in.AccountID)
	if err != nil {
		return nil, fmt.Errorf("read credit balance: %w", err)
	}
	if credits <= 0 {
		return nil, ErrInsufficientCredits
	}

	generated := s.Generator.Generate(ctx, in.Content, summarizer.Metadata{
		VideoID: in.VideoID,
		Title:   in.Title,
		URL:     videoURL,
	})

	record := &entity.Summary{
		AccountID:  in.AccountID,
		VideoID:    in.VideoID,
		VideoURL:   videoURL,
		Title:      generated.Title,
		Transcript: in.Content,
		Content: summarytext.Encode(summarytext.Document{
			Title:     generated.Title,
			KeyPoints: generated.KeyPoints,
			Prose:     generated.FullSummary,
		}),
	}

	remaining, err := s.Summaries.CreateWithCreditDebit(ctx, record)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientCredits):
			// A concurrent request drained the balance between the check
			// and the guarded debit.
			return nil, ErrInsufficientCredits
		case errors.Is(err, entity.ErrDuplicate):
			// A concurrent request created the record first; return the
			// winner's record without charging.
			winner, readErr := s.Summaries.GetByAccountAndURL(ctx, in.AccountID, videoURL)
			if readErr != nil || winner == nil {
				return nil, fmt.Errorf("read concurrent record: %w", err)
			}
			return s.existingResult(ctx, winner)
		default:
			return nil, fmt.Errorf("persist summary with debit: %w", err)
		}
	}
	if remaining < 0 {
		remaining = 0
	}

	return &GenerateResult{
		ID:               record.ID,
		Title:            generated.Title,
		KeyPoints:        generated.KeyPoints,
		FullSummary:      generated.FullSummary,
		SourceURL:        videoURL,
		AlreadySaved:     false,
		CreditsRemaining: remaining,
		CreatedAt:        record.CreatedAt,
	}, nil
}

// Save persists an already-structured summary idempotently keyed on
// (account, video URL). When a record already exists, the stored one is
// reported instead of creating a duplicate. Saves never charge credits.
func (s *Service) Save(ctx context.Context, in SaveInput) (*SaveResult, error) {
	if strings.TrimSpace(in.VideoID) == "" {
		return nil, &entity.ValidationError{Field: "videoId", Message: "videoId is required"}
	}
	if strings.TrimSpace(in.FullSummary) == "" {
		return nil, &entity.ValidationError{Field: "fullSummary", Message: "fullSummary is required"}
	}

	videoURL, err := canonicalURL(in.VideoID, in.SourceURL)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Video " + in.VideoID
	}

	record := &entity.Summary{
		AccountID:  in.AccountID,
		VideoID:    in.VideoID,
		VideoURL:   videoURL,
		Title:      title,
		Transcript: in.Transcript,
		Content: summarytext.Encode(summarytext.Document{
			Title:     title,
			KeyPoints: in.KeyPoints,
			Prose:     in.FullSummary,
		}),
	}

	stored, created, err := s.Summaries.CreateIfAbsent(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}

	return &SaveResult{
		ID:           stored.ID,
		CreatedAt:    stored.CreatedAt,
		AlreadySaved: !created,
	}, nil
}

// List returns one page of the account's records, newest first, decoded.
func (s *Service) List(ctx context.Context, accountID int64, params pagination.Params) (*PaginatedResult, error) {
	offset := pagination.CalculateOffset(params.Page, params.Limit)

	total, err := s.Summaries.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("count summaries: %w", err)
	}

	records, err := s.Summaries.ListByAccountPaginated(ctx, accountID, offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}

	views := make([]View, 0, len(records))
	for _, r := range records {
		views = append(views, decodeRecord(r))
	}

	return &PaginatedResult{
		Data: views,
		Pagination: pagination.Metadata{
			Total:      total,
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: pagination.CalculateTotalPages(total, params.Limit),
		},
	}, nil
}

// Get returns the decoded record if owned by the account.
// Returns ErrSummaryNotFound for absent and foreign records alike.
func (s *Service) Get(ctx context.Context, id, accountID int64) (*View, error) {
	record, err := s.ownedRecord(ctx, id, accountID)
	if err != nil {
		return nil, err
	}
	view := decodeRecord(record)
	return &view, nil
}

// Delete removes the record if owned by the account.
// Returns ErrSummaryNotFound when nothing was deleted, whether the record
// is absent or owned by someone else.
func (s *Service) Delete(ctx context.Context, id, accountID int64) error {
	if id <= 0 {
		return ErrInvalidSummaryID
	}

	deleted, err := s.Summaries.DeleteByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return fmt.Errorf("delete summary: %w", err)
	}
	if !deleted {
		return ErrSummaryNotFound
	}
	return nil
}

// Transcript returns the stored transcript for an owned record, or a
// placeholder synthesized from the decoded summary when none was stored.
func (s *Service) Transcript(ctx context.Context, id, accountID int64) (string, error) {
	record, err := s.ownedRecord(ctx, id, accountID)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(record.Transcript) != "" {
		return record.Transcript, nil
	}

	doc := summarytext.Decode(record.Content)
	return "Transcript unavailable for this video. Summary: " + doc.Prose, nil
}

// existingResult builds a short-circuit result from a stored record.
// The current balance is reported untouched.
func (s *Service) existingResult(ctx context.Context, record *entity.Summary) (*GenerateResult, error) {
	credits, err := s.Accounts.Credits(ctx, record.AccountID)
	if err != nil {
		return nil, fmt.Errorf("read credit balance: %w", err)
	}

	doc := summarytext.Decode(record.Content)
	return &GenerateResult{
		ID:               record.ID,
		Title:            doc.Title,
		KeyPoints:        doc.KeyPoints,
		FullSummary:      doc.Prose,
		SourceURL:        record.VideoURL,
		AlreadySaved:     true,
		CreditsRemaining: credits,
		CreatedAt:        record.CreatedAt,
	}, nil
}

// ownedRecord fetches a record with the ownership check applied.
func (s *Service) ownedRecord(ctx context.Context, id, accountID int64) (*entity.Summary, error) {
	if id <= 0 {
		return nil, ErrInvalidSummaryID
	}

	record, err := s.Summaries.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	if record == nil {
		return nil, ErrSummaryNotFound
	}
	return record, nil
}

// decodeRecord converts a stored record into its presentation form.
// Every read path decodes through the shared codec.
func decodeRecord(r *entity.Summary) View {
	doc := summarytext.Decode(r.Content)

	title := doc.Title
	if title == "" {
		title = r.Title
	}

	return View{
		ID:          r.ID,
		VideoID:     r.VideoID,
		SourceURL:   r.VideoURL,
		Title:       title,
		KeyPoints:   doc.KeyPoints,
		FullSummary: doc.Prose,
		CreatedAt:   r.CreatedAt,
	}
}

// canonicalURL validates an explicit URL or derives the default locator
// from the video ID.
func canonicalURL(videoID, explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		if err := entity.ValidateURL(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}
	return defaultVideoURLPrefix + videoID, nil
}
