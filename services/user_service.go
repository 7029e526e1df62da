package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailyDebugAPI/internal/types/leaderboard"
	"dailyDebugAPI/internal/types/stats"
	"dailyDebugAPI/internal/types/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u := &user.User{
		ID:        uuid.New().String(),
		ClerkID:   req.ClerkID,
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
	INSERT INTO users (id, clerk_id, email, username, first_name, last_name, image_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, clerk_id, email, username, first_name, last_name, image_url, email_verified, created_at, updated_at
	`

	err := s.db.QueryRow(
		ctx,
		query,
		u.ID,
		u.ClerkID,
		u.Email,
		u.Username,
		u.FirstName,
		u.LastName,
		u.ImageURL,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `
	SELECT id, clerk_id, email, username, first_name, last_name, image_url, email_verified, created_at, updated_at
	FROM users
	WHERE clerk_id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET username = $1, first_name = $2, last_name = $3, image_url = $4, updated_at = $5
	WHERE clerk_id = $6
	RETURNING id, clerk_id, email, username, first_name, last_name, image_url, email_verified, created_at, updated_at
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, req.Username, req.FirstName, req.LastName, req.ImageURL, time.Now(), clerkID).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (s *UserService) UpdateEmailVerification(ctx context.Context, clerkID string, verified bool) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET email_verified = $1, updated_at = $2 WHERE clerk_id = $3`,
		verified, time.Now(), clerkID)
	if err != nil {
		return fmt.Errorf("failed to update email verification: %w", err)
	}
	return nil
}

// xpExpr scores solved challenges: 100/250/500 by difficulty, minus 25 per
// extra attempt and per hint, never below 50 per solve.
const xpExpr = `
	GREATEST(50,
		CASE c.difficulty
			WHEN 'easy' THEN 100
			WHEN 'medium' THEN 250
			ELSE 500
		END
		- 25 * (up.attempts - 1)
		- 25 * up.hints_used)
`

// GetUserStats aggregates the solving history behind the stats cards:
// per-difficulty solved counts, daily streaks over solve dates, and XP.
func (s *UserService) GetUserStats(ctx context.Context, clerkID string) (*stats.UserStats, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, "SELECT id FROM users WHERE clerk_id = $1", clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	WITH solved_days AS (
		SELECT DISTINCT solved_at::date AS day
		FROM user_progress
		WHERE user_id = $1 AND status = 'solved' AND solved_at IS NOT NULL
	),
	streak_groups AS (
		SELECT day, day - (ROW_NUMBER() OVER (ORDER BY day))::int AS grp
		FROM solved_days
	),
	streaks AS (
		SELECT grp, COUNT(*) AS len, MAX(day) AS last_day
		FROM streak_groups
		GROUP BY grp
	),
	current_streak AS (
		SELECT COALESCE(MAX(len), 0) AS len
		FROM streaks
		WHERE last_day >= CURRENT_DATE - INTERVAL '1 day'
	),
	xp_total AS (
		SELECT COALESCE(SUM(` + xpExpr + `), 0) AS xp
		FROM user_progress up
		JOIN challenges c ON c.id = up.challenge_id
		WHERE up.user_id = $1 AND up.status = 'solved'
	)
	SELECT
		EXISTS (
			SELECT 1 FROM user_progress
			WHERE user_id = $1 AND status = 'solved' AND solved_at::date = CURRENT_DATE
		) AS today_solved,
		COUNT(*) FILTER (WHERE up.status = 'solved') AS total_solved,
		COUNT(*) FILTER (WHERE up.status = 'solved' AND c.difficulty = 'easy') AS solved_easy,
		COUNT(*) FILTER (WHERE up.status = 'solved' AND c.difficulty = 'medium') AS solved_medium,
		COUNT(*) FILTER (WHERE up.status = 'solved' AND c.difficulty = 'hard') AS solved_hard,
		COALESCE(SUM(up.attempts), 0) AS total_attempts,
		COALESCE(SUM(up.hints_used), 0) AS total_hints_used,
		(SELECT len FROM current_streak) AS current_streak,
		COALESCE((SELECT MAX(len) FROM streaks), 0) AS longest_streak,
		(SELECT xp FROM xp_total) AS xp
	FROM user_progress up
	JOIN challenges c ON c.id = up.challenge_id
	WHERE up.user_id = $1
	`

	st := &stats.UserStats{}
	err = s.db.QueryRow(ctx, query, userID).Scan(
		&st.TodaySolved,
		&st.TotalSolved,
		&st.SolvedEasy,
		&st.SolvedMedium,
		&st.SolvedHard,
		&st.TotalAttempts,
		&st.TotalHintsUsed,
		&st.CurrentStreak,
		&st.LongestStreak,
		&st.XP,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	return st, nil
}

// GetWeeklyLeaderboard ranks users by challenges solved since the start of
// the current week, XP as tiebreaker. clerkID may be empty for anonymous
// viewers; the user position row is then left out.
func (s *UserService) GetWeeklyLeaderboard(ctx context.Context, clerkID string) (*leaderboard.Leaderboard, error) {
	var userID uuid.UUID
	if clerkID != "" {
		err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to resolve user: %w", err)
		}
	}

	query := `
	WITH weekly AS (
		SELECT up.user_id,
			COUNT(*) AS solved_this_week,
			COALESCE(SUM(` + xpExpr + `), 0) AS xp
		FROM user_progress up
		JOIN challenges c ON c.id = up.challenge_id
		WHERE up.status = 'solved'
			AND up.solved_at >= DATE_TRUNC('week', CURRENT_DATE)
		GROUP BY up.user_id
	),
	streaks AS (
		SELECT user_id, MAX(len) AS current_streak
		FROM (
			SELECT user_id, COUNT(*) AS len, MAX(day) AS last_day
			FROM (
				SELECT user_id, solved_at::date AS day,
					solved_at::date - (ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY solved_at::date))::int AS grp
				FROM user_progress
				WHERE status = 'solved' AND solved_at IS NOT NULL
			) g
			GROUP BY user_id, grp
		) s
		WHERE last_day >= CURRENT_DATE - INTERVAL '1 day'
		GROUP BY user_id
	)
	SELECT
		u.id AS user_id,
		u.username,
		u.image_url,
		COALESCE(w.solved_this_week, 0) AS solved_this_week,
		COALESCE(st.current_streak, 0) AS current_streak,
		COALESCE(w.xp, 0) AS xp,
		RANK() OVER (ORDER BY COALESCE(w.solved_this_week, 0) DESC, COALESCE(w.xp, 0) DESC) AS rank
	FROM users u
	LEFT JOIN weekly w ON u.id = w.user_id
	LEFT JOIN streaks st ON u.id = st.user_id
	ORDER BY rank
	LIMIT 50
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*leaderboard.LeaderboardEntry
	var userPosition *leaderboard.LeaderboardEntry

	for rows.Next() {
		entry := &leaderboard.LeaderboardEntry{}
		err := rows.Scan(
			&entry.UserID,
			&entry.Username,
			&entry.ImageURL,
			&entry.SolvedThisWeek,
			&entry.CurrentStreak,
			&entry.XP,
			&entry.Rank,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		entries = append(entries, entry)

		if entry.UserID == userID {
			userPosition = entry
		}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &leaderboard.Leaderboard{
		Entries:      entries,
		UserPosition: userPosition,
		TotalUsers:   len(entries),
	}, nil
}
