// Package attempt owns the lifecycle of one user's run at one challenge:
// unsolved until either a correct submission (solved) or attempt exhaustion /
// give-up (failed). Both outcomes are terminal; a new challenge means a new
// machine.
package attempt

import (
	"time"

	"dailyDebugAPI/internal/answer"
	"dailyDebugAPI/internal/types/progress"
)

// DefaultMaxAttempts is the submission budget before a run is forced to
// failed. Kept as a configurable default because earlier builds of the
// product shipped with 2.
const DefaultMaxAttempts = 3

// PremiumHintCap is the hint budget for premium users. Free users get 0.
const PremiumHintCap = 3

// Machine is a pure in-memory state machine. It does no I/O; entitlement and
// challenge data are injected at construction, never read from ambient state.
type Machine struct {
	challengeID   int
	correctAnswer string
	hintCount     int
	hintCap       int
	maxAttempts   int

	status     progress.Status
	attempts   int
	hintsUsed  int
	userAnswer *string
	solvedAt   *time.Time

	now func() time.Time
}

type Option func(*Machine)

// WithMaxAttempts overrides the submission budget.
func WithMaxAttempts(n int) Option {
	return func(m *Machine) { m.maxAttempts = n }
}

// WithClock overrides the solved-at clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithRecord seeds the machine from a previously persisted progress record,
// so a returning user resumes where they left off instead of at unsolved.
func WithRecord(rec *progress.Record) Option {
	return func(m *Machine) {
		if rec == nil {
			return
		}
		m.status = rec.Status
		m.attempts = rec.Attempts
		m.hintsUsed = rec.HintsUsed
		m.userAnswer = rec.UserAnswer
		m.solvedAt = rec.SolvedAt
	}
}

// New builds a machine for one challenge. hintCap is the entitlement-derived
// budget (0 for free users); the effective cap is additionally clamped to the
// number of hints the challenge actually has.
func New(challengeID int, correctAnswer string, hintCount, hintCap int, opts ...Option) *Machine {
	m := &Machine{
		challengeID:   challengeID,
		correctAnswer: correctAnswer,
		hintCount:     hintCount,
		hintCap:       hintCap,
		maxAttempts:   DefaultMaxAttempts,
		status:        progress.StatusUnsolved,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Submit records one submission and returns whether it was correct. Terminal
// machines ignore the call so UI retries stay idempotent. The correctness
// check runs before the exhaustion check: a correct answer on the final
// attempt still resolves to solved.
func (m *Machine) Submit(text string) bool {
	if m.status.Terminal() {
		return m.status == progress.StatusSolved
	}

	m.attempts++
	m.userAnswer = &text

	if answer.IsCorrect(text, m.correctAnswer) {
		m.status = progress.StatusSolved
		t := m.now()
		m.solvedAt = &t
		return true
	}

	if m.attempts >= m.maxAttempts {
		m.status = progress.StatusFailed
	}
	return false
}

// UseHint consumes one hint, clamped to min(hintCap, hintCount). Beyond the
// cap or from a terminal state it is a no-op; hints are never handed back.
func (m *Machine) UseHint() {
	if m.status.Terminal() {
		return
	}
	limit := m.hintCap
	if m.hintCount < limit {
		limit = m.hintCount
	}
	if m.hintsUsed < limit {
		m.hintsUsed++
	}
}

// GiveUp forces failed regardless of how many attempts remain, revealing the
// solution. Idempotent from terminal states. The draft text is kept so the
// persisted record shows what the user had typed.
func (m *Machine) GiveUp(draft string) {
	if m.status.Terminal() {
		return
	}
	if draft != "" {
		m.userAnswer = &draft
	}
	m.status = progress.StatusFailed
}

func (m *Machine) ChallengeID() int        { return m.challengeID }
func (m *Machine) Status() progress.Status { return m.status }
func (m *Machine) Attempts() int           { return m.attempts }
func (m *Machine) HintsUsed() int          { return m.hintsUsed }
func (m *Machine) HintCap() int            { return m.hintCap }
func (m *Machine) UserAnswer() *string     { return m.userAnswer }
func (m *Machine) SolvedAt() *time.Time    { return m.solvedAt }

// RemainingAttempts is what the UI shows after an incorrect submission.
func (m *Machine) RemainingAttempts() int {
	if m.status.Terminal() {
		return 0
	}
	return m.maxAttempts - m.attempts
}

// Record snapshots the machine into a persistable progress record. The store
// owns created_at/updated_at.
func (m *Machine) Record(userID string) *progress.Record {
	return &progress.Record{
		UserID:      userID,
		ChallengeID: m.challengeID,
		Status:      m.status,
		Attempts:    m.attempts,
		HintsUsed:   m.hintsUsed,
		UserAnswer:  m.userAnswer,
		SolvedAt:    m.solvedAt,
	}
}
