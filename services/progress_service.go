package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailyDebugAPI/internal/types/progress"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProgressService struct {
	db *pgxpool.Pool
}

func NewProgressService(db *pgxpool.Pool) *ProgressService {
	return &ProgressService{db: db}
}

// GetProgress returns the record for (user, challenge), or nil when the user
// has never touched the challenge. nil is not an error here.
func (s *ProgressService) GetProgress(ctx context.Context, userID string, challengeID int) (*progress.Record, error) {
	query := `
	SELECT user_id, challenge_id, status, attempts, hints_used, user_answer, solved_at, created_at, updated_at
	FROM user_progress
	WHERE user_id = $1 AND challenge_id = $2
	`

	rec := &progress.Record{}
	err := s.db.QueryRow(ctx, query, userID, challengeID).Scan(
		&rec.UserID,
		&rec.ChallengeID,
		&rec.Status,
		&rec.Attempts,
		&rec.HintsUsed,
		&rec.UserAnswer,
		&rec.SolvedAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	return rec, nil
}

// UpsertProgress writes the record keyed by (user_id, challenge_id).
// created_at is insert-only; updated_at is bumped on every write. Writes are
// idempotent, so a stale in-flight persist from a previous page load is
// harmless.
func (s *ProgressService) UpsertProgress(ctx context.Context, rec *progress.Record) error {
	now := time.Now()

	query := `
	INSERT INTO user_progress (user_id, challenge_id, status, attempts, hints_used, user_answer, solved_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	ON CONFLICT (user_id, challenge_id) DO UPDATE SET
		status = EXCLUDED.status,
		attempts = EXCLUDED.attempts,
		hints_used = EXCLUDED.hints_used,
		user_answer = EXCLUDED.user_answer,
		solved_at = EXCLUDED.solved_at,
		updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.Exec(ctx, query,
		rec.UserID,
		rec.ChallengeID,
		rec.Status,
		rec.Attempts,
		rec.HintsUsed,
		rec.UserAnswer,
		rec.SolvedAt,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}

	return nil
}
