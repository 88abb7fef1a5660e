package model

import "time"

// Solution is one graded submission. Rows are append-only.
type Solution struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	PropositionID int64     `json:"proposition_id"`
	Text          string    `json:"solution"`
	IsCorrect     bool      `json:"is_correct"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// SubmitterSummary aggregates one user's submissions for a proposition.
type SubmitterSummary struct {
	UserID          int64     `json:"user_id"`
	UserName        string    `json:"user_name"`
	Attempts        int       `json:"attempts"`
	Solved          bool      `json:"solved"`
	LastSubmittedAt time.Time `json:"last_submitted_at"`
}
