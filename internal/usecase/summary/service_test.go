package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidbrief/internal/common/pagination"
	"vidbrief/internal/common/summarytext"
	"vidbrief/internal/domain/entity"
	"vidbrief/internal/infra/summarizer"
	"vidbrief/internal/repository"
)

/* ───────── ヘルパ ───────── */

// stubSummaryRepo is an in-memory SummaryRepository that mimics the
// uniqueness constraint and the transactional debit of the real store.
type stubSummaryRepo struct {
	records  map[int64]*entity.Summary
	nextID   int64
	accounts *stubAccountStore

	// failure injection
	lookupErr error
	createErr error
	deleteErr error
}

type stubAccountStore struct {
	credits map[int64]int
}

func newStubs() (*stubSummaryRepo, *stubAccountStore) {
	accounts := &stubAccountStore{credits: map[int64]int{}}
	return &stubSummaryRepo{
		records:  map[int64]*entity.Summary{},
		nextID:   1,
		accounts: accounts,
	}, accounts
}

func (r *stubSummaryRepo) GetByAccountAndURL(_ context.Context, accountID int64, videoURL string) (*entity.Summary, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, rec := range r.records {
		if rec.AccountID == accountID && rec.VideoURL == videoURL {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *stubSummaryRepo) CreateWithCreditDebit(_ context.Context, s *entity.Summary) (int, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	balance := r.accounts.credits[s.AccountID]
	if balance <= 0 {
		return 0, repository.ErrInsufficientCredits
	}
	for _, rec := range r.records {
		if rec.AccountID == s.AccountID && rec.VideoURL == s.VideoURL {
			return 0, entity.ErrDuplicate
		}
	}
	r.accounts.credits[s.AccountID] = balance - 1
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	r.nextID++
	r.records[s.ID] = s
	return balance - 1, nil
}

func (r *stubSummaryRepo) CreateIfAbsent(_ context.Context, s *entity.Summary) (*entity.Summary, bool, error) {
	if r.createErr != nil {
		return nil, false, r.createErr
	}
	for _, rec := range r.records {
		if rec.AccountID == s.AccountID && rec.VideoURL == s.VideoURL {
			return rec, false, nil
		}
	}
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	r.nextID++
	r.records[s.ID] = s
	return s, true, nil
}

func (r *stubSummaryRepo) ListByAccountPaginated(_ context.Context, accountID int64, offset, limit int) ([]*entity.Summary, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	var out []*entity.Summary
	for id := int64(1); id < r.nextID; id++ {
		if rec, ok := r.records[id]; ok && rec.AccountID == accountID {
			out = append(out, rec)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSummaryRepo) CountByAccount(_ context.Context, accountID int64) (int64, error) {
	if r.lookupErr != nil {
		return 0, r.lookupErr
	}
	var n int64
	for _, rec := range r.records {
		if rec.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *stubSummaryRepo) GetByIDAndAccount(_ context.Context, id, accountID int64) (*entity.Summary, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	rec, ok := r.records[id]
	if !ok || rec.AccountID != accountID {
		return nil, nil
	}
	return rec, nil
}

func (r *stubSummaryRepo) DeleteByIDAndAccount(_ context.Context, id, accountID int64) (bool, error) {
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	rec, ok := r.records[id]
	if !ok || rec.AccountID != accountID {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

// stubCreditReader adapts stubAccountStore to the slice of
// AccountRepository the orchestrator uses.
type stubCreditReader struct {
	store *stubAccountStore
	err   error
}

func (r *stubCreditReader) Create(context.Context, *entity.Account) error { return nil }
func (r *stubCreditReader) GetByEmail(context.Context, string) (*entity.Account, error) {
	return nil, nil
}
func (r *stubCreditReader) GetByID(context.Context, int64) (*entity.Account, error) {
	return nil, nil
}
func (r *stubCreditReader) GetByRefreshToken(context.Context, string) (*entity.Account, error) {
	return nil, nil
}
func (r *stubCreditReader) RotateRefreshToken(context.Context, int64, string, time.Time) error {
	return nil
}
func (r *stubCreditReader) Credits(_ context.Context, id int64) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.store.credits[id], nil
}
func (r *stubCreditReader) ReplenishBelow(context.Context, int) (int64, error) { return 0, nil }

// fixedGenerator returns the same structured summary for every call.
type fixedGenerator struct {
	result summarizer.StructuredSummary
	calls  int
}

func (g *fixedGenerator) Generate(_ context.Context, _ string, _ summarizer.Metadata) summarizer.StructuredSummary {
	g.calls++
	return g.result
}

func newTestService(t *testing.T) (*Service, *stubSummaryRepo, *stubAccountStore, *fixedGenerator) {
	t.Helper()
	repo, accounts := newStubs()
	gen := &fixedGenerator{result: summarizer.StructuredSummary{
		Title:       "Generated Title",
		KeyPoints:   []string{"point one", "point two"},
		FullSummary: "Full text.",
	}}
	svc := &Service{
		Summaries: repo,
		Accounts:  &stubCreditReader{store: accounts},
		Generator: gen,
	}
	return svc, repo, accounts, gen
}

func generateInput() GenerateInput {
	return GenerateInput{
		AccountID: 1,
		Content:   strings.Repeat("A meaningful transcript sentence for the test. ", 5),
		VideoID:   "dQw4w9WgXcQ",
	}
}

/* ───────── Generate ───────── */

func TestGenerate_FirstCallChargesOneCredit(t *testing.T) {
	svc, repo, accounts, _ := newTestService(t)
	accounts.credits[1] = 10

	got, err := svc.Generate(context.Background(), generateInput())
	require.NoError(t, err)

	assert.False(t, got.AlreadySaved)
	assert.Equal(t, 9, got.CreditsRemaining)
	assert.Equal(t, "Generated Title", got.Title)
	assert.Equal(t, []string{"point one", "point two"}, got.KeyPoints)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", got.SourceURL)
	assert.Len(t, repo.records, 1)
	assert.Equal(t, 9, accounts.credits[1])
}

func TestGenerate_SecondCallShortCircuits(t *testing.T) {
	svc, _, accounts, gen := newTestService(t)
	accounts.credits[1] = 10

	first, err := svc.Generate(context.Background(), generateInput())
	require.NoError(t, err)

	second, err := svc.Generate(context.Background(), generateInput())
	require.NoError(t, err)

	// Exactly one charge across both calls, and the generator ran once.
	assert.Equal(t, 9, accounts.credits[1])
	assert.Equal(t, 1, gen.calls)
	assert.True(t, second.AlreadySaved)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.KeyPoints, second.KeyPoints)
	assert.Equal(t, first.FullSummary, second.FullSummary)
}

func TestGenerate_ZeroBalanceForbidden(t *testing.T) {
	svc, repo, accounts, gen := newTestService(t)
	accounts.credits[1] = 0

	_, err := svc.Generate(context.Background(), generateInput())

	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Empty(t, repo.records)
	assert.Equal(t, 0, gen.calls)
}

func TestGenerate_MissingFields(t *testing.T) {
	svc, _, accounts, _ := newTestService(t)
	accounts.credits[1] = 10

	var verr *entity.ValidationError

	in := generateInput()
	in.Content = "   "
	_, err := svc.Generate(context.Background(), in)
	assert.ErrorAs(t, err, &verr)

	in = generateInput()
	in.VideoID = ""
	_, err = svc.Generate(context.Background(), in)
	assert.ErrorAs(t, err, &verr)
}

func TestGenerate_ExplicitURLWins(t *testing.T) {
	svc, _, accounts, _ := newTestService(t)
	accounts.credits[1] = 10

	in := generateInput()
	in.URL = "https://example.com/videos/42"

	got, err := svc.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/videos/42", got.SourceURL)

	in.URL = "ftp://example.com/nope"
	var verr *entity.ValidationError
	_, err = svc.Generate(context.Background(), in)
	assert.ErrorAs(t, err, &verr)
}

func TestGenerate_ConcurrentDuplicateReturnsWinner(t *testing.T) {
	svc, repo, accounts, _ := newTestService(t)
	accounts.credits[1] = 10

	// Simulate losing the insert race: the dedup lookup misses but the
	// transactional insert reports a duplicate, and by then the winner's
	// record is readable.
	winner := &entity.Summary{
		ID:        77,
		AccountID: 1,
		VideoID:   "dQw4w9WgXcQ",
		VideoURL:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Title:     "Winner",
		Content: summarytext.Encode(summarytext.Document{
			Title:     "Winner",
			KeyPoints: []string{"w1"},
			Prose:     "Winner prose.",
		}),
		CreatedAt: time.Now(),
	}
	lookups := 0
	raceRepo := &racingSummaryRepo{stub: repo, winner: winner, lookups: &lookups}
	svc.Summaries = raceRepo

	got, err := svc.Generate(context.Background(), generateInput())
	require.NoError(t, err)

	assert.True(t, got.AlreadySaved)
	assert.Equal(t, int64(77), got.ID)
	assert.Equal(t, "Winner", got.Title)
	assert.Equal(t, 10, accounts.credits[1]) // no charge on the losing side
}

// racingSummaryRepo misses the first dedup lookup, fails the insert with
// a duplicate, then serves the winner's record.
type racingSummaryRepo struct {
	stub    *stubSummaryRepo
	winner  *entity.Summary
	lookups *int
}

func (r *racingSummaryRepo) GetByAccountAndURL(ctx context.Context, accountID int64, videoURL string) (*entity.Summary, error) {
	*r.lookups++
	if *r.lookups == 1 {
		return nil, nil
	}
	return r.winner, nil
}

func (r *racingSummaryRepo) CreateWithCreditDebit(context.Context, *entity.Summary) (int, error) {
	return 0, entity.ErrDuplicate
}

func (r *racingSummaryRepo) CreateIfAbsent(ctx context.Context, s *entity.Summary) (*entity.Summary, bool, error) {
	return r.stub.CreateIfAbsent(ctx, s)
}

func (r *racingSummaryRepo) ListByAccountPaginated(ctx context.Context, accountID int64, offset, limit int) ([]*entity.Summary, error) {
	return r.stub.ListByAccountPaginated(ctx, accountID, offset, limit)
}

func (r *racingSummaryRepo) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	return r.stub.CountByAccount(ctx, accountID)
}

func (r *racingSummaryRepo) GetByIDAndAccount(ctx context.Context, id, accountID int64) (*entity.Summary, error) {
	return r.stub.GetByIDAndAccount(ctx, id, accountID)
}

func (r *racingSummaryRepo) DeleteByIDAndAccount(ctx context.Context, id, accountID int64) (bool, error) {
	return r.stub.DeleteByIDAndAccount(ctx, id, accountID)
}

func TestGenerate_PersistFailureSurfaces(t *testing.T) {
	svc, repo, accounts, _ := newTestService(t)
	accounts.credits[1] = 10
	repo.createErr = errors.New("connection reset")

	_, err := svc.Generate(context.Background(), generateInput())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientCredits)
}

/* ───────── Save ───────── */

func TestSave_Idempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	in := SaveInput{
		AccountID:   1,
		VideoID:     "vid42",
		Title:       "Saved Title",
		KeyPoints:   []string{"k1", "k2"},
		FullSummary: "Saved prose.",
	}

	first, err := svc.Save(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, first.AlreadySaved)

	second, err := svc.Save(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, second.AlreadySaved)
	assert.Equal(t, first.ID, second.ID)
}

func TestSave_MissingFields(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	var verr *entity.ValidationError

	_, err := svc.Save(context.Background(), SaveInput{AccountID: 1, FullSummary: "x"})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Save(context.Background(), SaveInput{AccountID: 1, VideoID: "v"})
	assert.ErrorAs(t, err, &verr)
}

func TestSave_DefaultsTitle(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	result, err := svc.Save(context.Background(), SaveInput{
		AccountID:   1,
		VideoID:     "vid9",
		FullSummary: "Prose only.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Video vid9", repo.records[result.ID].Title)
}

/* ───────── Read paths ───────── */

func seedRecord(t *testing.T, svc *Service, accountID int64, videoID string) *SaveResult {
	t.Helper()
	result, err := svc.Save(context.Background(), SaveInput{
		AccountID:   accountID,
		VideoID:     videoID,
		Title:       "Title " + videoID,
		KeyPoints:   []string{"alpha", "beta"},
		FullSummary: "Prose for " + videoID + ".",
	})
	require.NoError(t, err)
	return result
}

func TestList_DecodesRecords(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	seedRecord(t, svc, 1, "v1")
	seedRecord(t, svc, 1, "v2")
	seedRecord(t, svc, 2, "v3") // someone else's

	got, err := svc.List(context.Background(), 1, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	require.Len(t, got.Data, 2)
	assert.Equal(t, int64(2), got.Pagination.Total)
	assert.Equal(t, "Title v1", got.Data[0].Title)
	assert.Equal(t, []string{"alpha", "beta"}, got.Data[0].KeyPoints)
	assert.Equal(t, "Prose for v1.", got.Data[0].FullSummary)
}

func TestGet_OwnershipChecked(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	saved := seedRecord(t, svc, 1, "v1")

	view, err := svc.Get(context.Background(), saved.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Title v1", view.Title)

	// A foreign record is indistinguishable from an absent one.
	_, err = svc.Get(context.Background(), saved.ID, 2)
	assert.ErrorIs(t, err, ErrSummaryNotFound)

	_, err = svc.Get(context.Background(), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidSummaryID)
}

func TestDelete_OwnershipChecked(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	saved := seedRecord(t, svc, 1, "v1")

	// Account 2 cannot delete account 1's record.
	err := svc.Delete(context.Background(), saved.ID, 2)
	assert.ErrorIs(t, err, ErrSummaryNotFound)
	assert.Len(t, repo.records, 1)

	// The owner can.
	require.NoError(t, svc.Delete(context.Background(), saved.ID, 1))
	assert.Empty(t, repo.records)

	// Deleting again reports not found.
	err = svc.Delete(context.Background(), saved.ID, 1)
	assert.ErrorIs(t, err, ErrSummaryNotFound)
}

func TestTranscript(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	withTranscript, err := svc.Save(context.Background(), SaveInput{
		AccountID:   1,
		VideoID:     "v1",
		Title:       "T",
		FullSummary: "Prose.",
		Transcript:  "the raw transcript text",
	})
	require.NoError(t, err)

	got, err := svc.Transcript(context.Background(), withTranscript.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "the raw transcript text", got)

	// Empty transcript synthesizes a placeholder from the decoded summary.
	withoutTranscript := seedRecord(t, svc, 1, "v2")
	got, err = svc.Transcript(context.Background(), withoutTranscript.ID, 1)
	require.NoError(t, err)
	assert.Contains(t, got, "Transcript unavailable")
	assert.Contains(t, got, "Prose for v2.")

	// Ownership applies here too.
	_, err = svc.Transcript(context.Background(), withTranscript.ID, 2)
	assert.ErrorIs(t, err, ErrSummaryNotFound)
}
