package attempt

import (
	"testing"
	"time"

	"dailyDebugAPI/internal/types/progress"
)

const canonical = "fast = nums[fast]"

func newTestMachine(hintCap int, opts ...Option) *Machine {
	return New(1, canonical, 3, hintCap, opts...)
}

func TestSubmitCorrectFirstTry(t *testing.T) {
	m := newTestMachine(0)

	if !m.Submit("Fast = nums[fast]") {
		t.Fatal("expected correct verdict")
	}
	if m.Status() != progress.StatusSolved {
		t.Errorf("status = %s, want solved", m.Status())
	}
	if m.Attempts() != 1 {
		t.Errorf("attempts = %d, want 1", m.Attempts())
	}
	if m.SolvedAt() == nil {
		t.Error("solvedAt not set on solve")
	}
}

func TestThreeIncorrectSubmissionsFail(t *testing.T) {
	m := newTestMachine(0)

	for i, text := range []string{"wrong", "still wrong", "nope"} {
		m.Submit(text)
		if i < 2 && m.Status() != progress.StatusUnsolved {
			t.Fatalf("terminal after %d attempts", i+1)
		}
	}

	if m.Status() != progress.StatusFailed {
		t.Errorf("status = %s, want failed", m.Status())
	}
	if m.Attempts() != 3 {
		t.Errorf("attempts = %d, want 3", m.Attempts())
	}
	if m.SolvedAt() != nil {
		t.Error("solvedAt set on failed run")
	}
}

func TestCorrectOnFinalAttemptSolves(t *testing.T) {
	m := newTestMachine(0)

	m.Submit("wrong")
	m.Submit("also wrong")
	if !m.Submit(canonical) {
		t.Fatal("expected correct verdict on third attempt")
	}
	if m.Status() != progress.StatusSolved {
		t.Errorf("status = %s, want solved: correctness beats exhaustion", m.Status())
	}
}

func TestSubmitIgnoredOnTerminal(t *testing.T) {
	m := newTestMachine(0)
	m.Submit(canonical)

	if m.Submit("wrong") != true {
		t.Error("submit on solved machine should keep reporting solved")
	}
	if m.Attempts() != 1 {
		t.Errorf("attempts = %d, want 1 after terminal submit", m.Attempts())
	}

	m = newTestMachine(0)
	m.GiveUp("")
	m.Submit(canonical)
	if m.Status() != progress.StatusFailed {
		t.Error("failed is terminal, submit must not re-evaluate")
	}
	if m.Attempts() != 0 {
		t.Errorf("attempts = %d, want 0", m.Attempts())
	}
}

func TestRemainingAttempts(t *testing.T) {
	m := newTestMachine(0)
	if got := m.RemainingAttempts(); got != 3 {
		t.Errorf("remaining = %d, want 3", got)
	}
	m.Submit("wrong")
	if got := m.RemainingAttempts(); got != 2 {
		t.Errorf("remaining = %d, want 2", got)
	}
}

func TestConfigurableAttemptBudget(t *testing.T) {
	m := New(1, canonical, 0, 0, WithMaxAttempts(2))

	m.Submit("wrong")
	if m.Status() != progress.StatusUnsolved {
		t.Fatal("terminal after one of two attempts")
	}
	m.Submit("wrong again")
	if m.Status() != progress.StatusFailed {
		t.Errorf("status = %s, want failed with a 2-attempt budget", m.Status())
	}
}

func TestUseHintClampedToEntitlement(t *testing.T) {
	// Free user: cap 0, hints never unlock.
	m := newTestMachine(0)
	m.UseHint()
	if m.HintsUsed() != 0 {
		t.Errorf("hintsUsed = %d, want 0 for free user", m.HintsUsed())
	}

	// Premium user: cap 3, challenge has 3 hints.
	m = newTestMachine(PremiumHintCap)
	for i := 0; i < 5; i++ {
		m.UseHint()
	}
	if m.HintsUsed() != 3 {
		t.Errorf("hintsUsed = %d, want 3", m.HintsUsed())
	}
}

func TestUseHintClampedToHintCount(t *testing.T) {
	// Premium cap 3 but the challenge only ships 2 hints.
	m := New(1, canonical, 2, PremiumHintCap)
	for i := 0; i < 5; i++ {
		m.UseHint()
	}
	if m.HintsUsed() != 2 {
		t.Errorf("hintsUsed = %d, want 2", m.HintsUsed())
	}
}

func TestUseHintNoOpOnTerminal(t *testing.T) {
	m := newTestMachine(PremiumHintCap)
	m.Submit(canonical)
	m.UseHint()
	if m.HintsUsed() != 0 {
		t.Errorf("hintsUsed = %d, want 0 after solve", m.HintsUsed())
	}
}

func TestGiveUpAlwaysFails(t *testing.T) {
	for _, attempts := range []int{0, 1, 2} {
		m := newTestMachine(0)
		for i := 0; i < attempts; i++ {
			m.Submit("wrong")
		}
		m.GiveUp("my draft")
		if m.Status() != progress.StatusFailed {
			t.Errorf("giveUp with %d attempts: status = %s, want failed", attempts, m.Status())
		}
		if m.UserAnswer() == nil || *m.UserAnswer() != "my draft" {
			t.Error("giveUp should keep the draft text")
		}
	}
}

func TestGiveUpIdempotentFromTerminal(t *testing.T) {
	m := newTestMachine(0)
	m.Submit(canonical)
	m.GiveUp("")
	if m.Status() != progress.StatusSolved {
		t.Error("giveUp must not demote a solved run")
	}
}

func TestSeedFromRecord(t *testing.T) {
	ans := "wrong"
	rec := &progress.Record{
		UserID:      "u1",
		ChallengeID: 1,
		Status:      progress.StatusUnsolved,
		Attempts:    2,
		HintsUsed:   1,
		UserAnswer:  &ans,
	}

	m := newTestMachine(PremiumHintCap, WithRecord(rec))
	if m.Attempts() != 2 || m.HintsUsed() != 1 {
		t.Fatalf("seed lost: attempts=%d hintsUsed=%d", m.Attempts(), m.HintsUsed())
	}

	// One attempt left; an incorrect answer exhausts the budget.
	m.Submit("still wrong")
	if m.Status() != progress.StatusFailed {
		t.Errorf("status = %s, want failed on third overall attempt", m.Status())
	}
}

func TestRecordSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	m := newTestMachine(PremiumHintCap, WithClock(func() time.Time { return now }))

	m.UseHint()
	m.Submit(canonical)

	rec := m.Record("u1")
	if rec.UserID != "u1" || rec.ChallengeID != 1 {
		t.Errorf("record key = (%s, %d)", rec.UserID, rec.ChallengeID)
	}
	if rec.Status != progress.StatusSolved || rec.Attempts != 1 || rec.HintsUsed != 1 {
		t.Errorf("record = %+v", rec)
	}
	if rec.SolvedAt == nil || !rec.SolvedAt.Equal(now) {
		t.Errorf("solvedAt = %v, want %v", rec.SolvedAt, now)
	}
}
