package entity

import "time"

// Summary represents a persisted video summary owned by an account.
// Content holds the encoded body: a single string packing title, key
// points, and prose (see common/summarytext). Records are immutable
// after creation; there is no update path.
type Summary struct {
	ID         int64
	AccountID  int64
	VideoID    string
	VideoURL   string
	Title      string
	Transcript string
	Content    string
	CreatedAt  time.Time
}
