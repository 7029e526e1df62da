package progress

import "time"

type Status string

const (
	StatusUnsolved Status = "unsolved"
	StatusSolved   Status = "solved"
	StatusFailed   Status = "failed"
)

// Terminal reports whether no further transitions are accepted for this status.
func (s Status) Terminal() bool {
	return s == StatusSolved || s == StatusFailed
}

// Record is one user's relationship to one challenge. The (user_id,
// challenge_id) pair is unique; created_at is set on first write only.
type Record struct {
	UserID      string     `json:"user_id" db:"user_id"`
	ChallengeID int        `json:"challenge_id" db:"challenge_id"`
	Status      Status     `json:"status" db:"status"`
	Attempts    int        `json:"attempts" db:"attempts"`
	HintsUsed   int        `json:"hints_used" db:"hints_used"`
	UserAnswer  *string    `json:"user_answer" db:"user_answer"`
	SolvedAt    *time.Time `json:"solved_at" db:"solved_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type SubmitRequest struct {
	Answer string `json:"answer"`
}

type GiveUpRequest struct {
	// Draft text left in the input at give-up time, persisted for continuity.
	Answer string `json:"answer"`
}

// SolveResponse is what the solver UI renders after every action. When the
// best-effort persist fails, ProgressSaved turns false and Notice carries a
// non-blocking message; the verdict itself is never affected.
type SolveResponse struct {
	Status            Status   `json:"status"`
	Correct           bool     `json:"correct"`
	Attempts          int      `json:"attempts"`
	RemainingAttempts int      `json:"remaining_attempts"`
	HintsUsed         int      `json:"hints_used"`
	HintCap           int      `json:"hint_cap"`
	Hints             []string `json:"hints,omitempty"`
	Explanation       string   `json:"explanation,omitempty"`
	CorrectAnswer     string   `json:"correct_answer,omitempty"`
	ProgressSaved     bool     `json:"progress_saved"`
	Notice            string   `json:"notice,omitempty"`

	// Replay marks a call against an already-terminal run; the machine
	// ignored it. Not part of the wire response, handlers use it to keep
	// idempotent UI retries out of the verdict metrics.
	Replay bool `json:"-"`
}
