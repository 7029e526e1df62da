package integration

import (
	"context"
	"testing"
	"time"

	"dailyDebugAPI/internal/types/challenge"
	"dailyDebugAPI/internal/types/progress"
	"dailyDebugAPI/internal/types/user"
	"dailyDebugAPI/services"
	"dailyDebugAPI/tests/helpers"

	"github.com/google/uuid"
)

// Full solve flow against a real database: seed a challenge and a user, miss
// twice, use a hint path, solve, and check what user_progress ends up with.
func TestSolveFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	challengeService := services.NewChallengeService(pool)
	progressService := services.NewProgressService(pool)
	userService := services.NewUserService(pool)
	subscriptionService := services.NewSubscriptionService(pool)
	solveService := services.NewSolveService(challengeService, progressService, subscriptionService)

	clerkID := "user_test_" + uuid.NewString()
	u, err := userService.CreateUser(ctx, &user.CreateUserRequest{
		ClerkID:  clerkID,
		Email:    "test+solveflow@example.com",
		Username: "solveflow",
	})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	bugLine := 3
	ch, err := challengeService.CreateChallenge(ctx, &challenge.CreateChallengeRequest{
		ID:            900001,
		Date:          "1999-01-01", // far in the past so it never collides with today's challenge
		Type:          challenge.TypeBugFix,
		Difficulty:    challenge.DifficultyMedium,
		Title:         "Fast pointer follows slow",
		Description:   "Fix the cycle detection step.",
		Code:          "slow = nums[slow]\nfast = nums[slow]",
		BugLine:       &bugLine,
		CorrectAnswer: "fast = nums[fast]",
		Hints:         []string{"Look at line 3", "Which index does fast read?", "fast should chase itself"},
		Explanation:   "The fast pointer must advance from its own position.",
	})
	if err != nil {
		t.Fatalf("Failed to create challenge: %v", err)
	}

	// Two misses.
	resp, err := solveService.Submit(ctx, u.ID, ch.ID, "fast = nums[slow]")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if resp.Correct || resp.Status != progress.StatusUnsolved {
		t.Fatalf("First miss: %+v", resp)
	}
	if resp.RemainingAttempts != 2 {
		t.Errorf("remaining = %d, want 2", resp.RemainingAttempts)
	}

	if _, err := solveService.Submit(ctx, u.ID, ch.ID, "slow = nums[fast]"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Free user, hint is a no-op.
	hintResp, err := solveService.UseHint(ctx, u.ID, ch.ID)
	if err != nil {
		t.Fatalf("UseHint failed: %v", err)
	}
	if hintResp.HintsUsed != 0 {
		t.Errorf("hintsUsed = %d, want 0 without premium", hintResp.HintsUsed)
	}

	// Solve on the final attempt, different terminator and casing.
	resp, err = solveService.Submit(ctx, u.ID, ch.ID, "  Fast = nums[fast] ; ")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !resp.Correct || resp.Status != progress.StatusSolved {
		t.Fatalf("Final submit: %+v", resp)
	}
	if resp.Explanation == "" {
		t.Error("solved response should include the explanation")
	}

	// The stored record survives a fresh load.
	state, err := solveService.GetSolveState(ctx, u.ID, ch.ID)
	if err != nil {
		t.Fatalf("GetSolveState failed: %v", err)
	}
	if state.Status != progress.StatusSolved || state.Attempts != 3 {
		t.Errorf("reloaded state = %+v", state)
	}

	rec, err := progressService.GetProgress(ctx, u.ID, ch.ID)
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if rec == nil || rec.Status != progress.StatusSolved || rec.Attempts != 3 {
		t.Fatalf("stored record = %+v", rec)
	}
	if rec.SolvedAt == nil {
		t.Error("solved_at not set")
	}
	if rec.CreatedAt.After(rec.UpdatedAt) {
		t.Error("created_at should not move past updated_at")
	}

	// Stats reflect the solve.
	st, err := userService.GetUserStats(ctx, clerkID)
	if err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if st.TotalSolved != 1 || st.SolvedMedium != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.XP <= 0 {
		t.Errorf("xp = %d, want > 0 after a solve", st.XP)
	}
}
