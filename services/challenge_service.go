package services

import (
	"context"
	"errors"
	"fmt"

	"dailyDebugAPI/internal/types/challenge"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChallengeService struct {
	db *pgxpool.Pool
}

func NewChallengeService(db *pgxpool.Pool) *ChallengeService {
	return &ChallengeService{db: db}
}

const challengeColumns = `
	id, to_char(date, 'YYYY-MM-DD'), type, difficulty, title, description,
	code, bug_line, correct_answer, hints, explanation, is_active, created_at
`

func scanChallenge(row pgx.Row) (*challenge.Challenge, error) {
	ch := &challenge.Challenge{}
	err := row.Scan(
		&ch.ID,
		&ch.Date,
		&ch.Type,
		&ch.Difficulty,
		&ch.Title,
		&ch.Description,
		&ch.Code,
		&ch.BugLine,
		&ch.CorrectAnswer,
		&ch.Hints,
		&ch.Explanation,
		&ch.IsActive,
		&ch.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// GetChallengeByDate returns the single active challenge for a calendar day.
func (s *ChallengeService) GetChallengeByDate(ctx context.Context, date string) (*challenge.Challenge, error) {
	query := `
	SELECT ` + challengeColumns + `
	FROM challenges
	WHERE date = $1 AND is_active = true
	`

	ch, err := scanChallenge(s.db.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge for %s: %w", date, err)
	}
	return ch, nil
}

func (s *ChallengeService) GetChallengeByID(ctx context.Context, id int) (*challenge.Challenge, error) {
	query := `
	SELECT ` + challengeColumns + `
	FROM challenges
	WHERE id = $1 AND is_active = true
	`

	ch, err := scanChallenge(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge %d: %w", id, err)
	}
	return ch, nil
}

// ListChallengesBefore returns past active challenges, newest first, for the
// archive page.
func (s *ChallengeService) ListChallengesBefore(ctx context.Context, date string) ([]*challenge.Challenge, error) {
	query := `
	SELECT ` + challengeColumns + `
	FROM challenges
	WHERE date < $1 AND is_active = true
	ORDER BY date DESC
	`

	rows, err := s.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list past challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*challenge.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, ch)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return challenges, nil
}

// CreateChallenge ingests one challenge, the seeding path used by the content
// migration. The per-date uniqueness is enforced by the partial unique index
// on (date) WHERE is_active.
func (s *ChallengeService) CreateChallenge(ctx context.Context, req *challenge.CreateChallengeRequest) (*challenge.Challenge, error) {
	query := `
	INSERT INTO challenges (id, date, type, difficulty, title, description, code, bug_line, correct_answer, hints, explanation, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true)
	ON CONFLICT (id) DO UPDATE SET
		date = EXCLUDED.date,
		type = EXCLUDED.type,
		difficulty = EXCLUDED.difficulty,
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		code = EXCLUDED.code,
		bug_line = EXCLUDED.bug_line,
		correct_answer = EXCLUDED.correct_answer,
		hints = EXCLUDED.hints,
		explanation = EXCLUDED.explanation
	RETURNING ` + challengeColumns + `
	`

	ch, err := scanChallenge(s.db.QueryRow(ctx, query,
		req.ID,
		req.Date,
		req.Type,
		req.Difficulty,
		req.Title,
		req.Description,
		req.Code,
		req.BugLine,
		req.CorrectAnswer,
		req.Hints,
		req.Explanation,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	return ch, nil
}
