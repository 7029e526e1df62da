package services

import (
	"context"
	"errors"
	"log"
	"time"

	"dailyDebugAPI/internal/attempt"
	"dailyDebugAPI/internal/types/challenge"
	"dailyDebugAPI/internal/types/progress"
)

// ChallengeStore is the catalog lookup the solve flow depends on. The Postgres
// implementation lives in ChallengeService; tests plug in fakes.
type ChallengeStore interface {
	GetChallengeByDate(ctx context.Context, date string) (*challenge.Challenge, error)
	GetChallengeByID(ctx context.Context, id int) (*challenge.Challenge, error)
	ListChallengesBefore(ctx context.Context, date string) ([]*challenge.Challenge, error)
}

// ProgressStore persists one record per (user, challenge) pair.
type ProgressStore interface {
	GetProgress(ctx context.Context, userID string, challengeID int) (*progress.Record, error)
	UpsertProgress(ctx context.Context, rec *progress.Record) error
}

// EntitlementProvider answers whether a user's subscription grants hints.
type EntitlementProvider interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}

// SolveService coordinates the solving core with its collaborators: it loads
// prior progress to seed the state machine, runs the requested action, and
// persists the result best-effort. A store failure never touches the verdict;
// it only downgrades the response to "not saved".
type SolveService struct {
	challenges  ChallengeStore
	progress    ProgressStore
	entitlement EntitlementProvider
	maxAttempts int
}

func NewSolveService(challenges ChallengeStore, progressStore ProgressStore, entitlement EntitlementProvider) *SolveService {
	return &SolveService{
		challenges:  challenges,
		progress:    progressStore,
		entitlement: entitlement,
		maxAttempts: attempt.DefaultMaxAttempts,
	}
}

// SetMaxAttempts overrides the submission budget for all machines this
// service builds.
func (s *SolveService) SetMaxAttempts(n int) {
	if n > 0 {
		s.maxAttempts = n
	}
}

const progressSaveNotice = "Your result could not be saved. It still counts for this session."

// loadMachine builds a machine for (userID, challengeID), seeded from the
// stored record when the user is known. Anonymous sessions (userID == "")
// always start fresh and are never persisted.
func (s *SolveService) loadMachine(ctx context.Context, userID string, ch *challenge.Challenge) *attempt.Machine {
	hintCap := s.hintCapFor(ctx, userID)

	opts := []attempt.Option{attempt.WithMaxAttempts(s.maxAttempts)}
	if userID != "" {
		rec, err := s.progress.GetProgress(ctx, userID, ch.ID)
		if err != nil {
			log.Printf("Warning: could not load progress for user %s challenge %d: %v", userID, ch.ID, err)
		} else if rec != nil {
			opts = append(opts, attempt.WithRecord(rec))
		}
	}

	return attempt.New(ch.ID, ch.CorrectAnswer, len(ch.Hints), hintCap, opts...)
}

// hintCapFor fails closed: if entitlement cannot be determined the paid
// feature stays off.
func (s *SolveService) hintCapFor(ctx context.Context, userID string) int {
	if userID == "" {
		return 0
	}
	premium, err := s.entitlement.IsPremium(ctx, userID)
	if err != nil {
		log.Printf("Warning: entitlement lookup failed for user %s: %v", userID, err)
		return 0
	}
	if !premium {
		return 0
	}
	return attempt.PremiumHintCap
}

// GetSolveState returns the seeded state for the solver UI on challenge load.
// A terminal record pre-opens the explanation view.
func (s *SolveService) GetSolveState(ctx context.Context, userID string, challengeID int) (*progress.SolveResponse, error) {
	ch, err := s.challenges.GetChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	m := s.loadMachine(ctx, userID, ch)
	resp := s.response(m, ch, false, true)
	return resp, nil
}

// Submit runs one submission through the state machine and persists the new
// state. The returned verdict is authoritative for the session even when the
// persist fails.
func (s *SolveService) Submit(ctx context.Context, userID string, challengeID int, text string) (*progress.SolveResponse, error) {
	ch, err := s.challenges.GetChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	m := s.loadMachine(ctx, userID, ch)
	wasTerminal := m.Status().Terminal()
	correct := m.Submit(text)

	saved := s.persist(ctx, userID, m)
	resp := s.response(m, ch, correct, saved)
	resp.Replay = wasTerminal
	return resp, nil
}

// UseHint unlocks the next hint, subject to entitlement and the challenge's
// hint count. The returned response carries every hint unlocked so far.
func (s *SolveService) UseHint(ctx context.Context, userID string, challengeID int) (*progress.SolveResponse, error) {
	ch, err := s.challenges.GetChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	m := s.loadMachine(ctx, userID, ch)
	before := m.HintsUsed()
	m.UseHint()

	saved := true
	if m.HintsUsed() != before {
		saved = s.persist(ctx, userID, m)
	}
	return s.response(m, ch, false, saved), nil
}

// GiveUp forces the run to failed and reveals the solution. The draft answer
// text is persisted for continuity.
func (s *SolveService) GiveUp(ctx context.Context, userID string, challengeID int, draft string) (*progress.SolveResponse, error) {
	ch, err := s.challenges.GetChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	m := s.loadMachine(ctx, userID, ch)
	m.GiveUp(draft)

	saved := s.persist(ctx, userID, m)
	return s.response(m, ch, false, saved), nil
}

// persist is best-effort. Anonymous sessions are not durable; store errors
// are swallowed after logging so the local verdict stands.
func (s *SolveService) persist(ctx context.Context, userID string, m *attempt.Machine) bool {
	if userID == "" {
		return true
	}
	if err := s.progress.UpsertProgress(ctx, m.Record(userID)); err != nil {
		log.Printf("Warning: failed to persist progress for user %s challenge %d: %v", userID, m.ChallengeID(), err)
		return false
	}
	return true
}

func (s *SolveService) response(m *attempt.Machine, ch *challenge.Challenge, correct, saved bool) *progress.SolveResponse {
	resp := &progress.SolveResponse{
		Status:            m.Status(),
		Correct:           correct,
		Attempts:          m.Attempts(),
		RemainingAttempts: m.RemainingAttempts(),
		HintsUsed:         m.HintsUsed(),
		HintCap:           m.HintCap(),
		ProgressSaved:     saved,
	}
	if !saved {
		resp.Notice = progressSaveNotice
	}
	if n := m.HintsUsed(); n > 0 && n <= len(ch.Hints) {
		resp.Hints = ch.Hints[:n]
	}
	// Solution and explanation are only revealed once the run is over.
	if m.Status().Terminal() {
		resp.Explanation = ch.Explanation
		resp.CorrectAnswer = ch.CorrectAnswer
	}
	return resp
}

// TodayDate is the catalog key for "challenge of the day".
func TodayDate() string {
	return time.Now().UTC().Format("2006-01-02")
}

// ErrChallengeNotFound keeps not-found distinguishable from real failures at
// the handler layer.
var ErrChallengeNotFound = errors.New("challenge not found")
