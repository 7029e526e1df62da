package stats

// UserStats aggregates a user's solving history for the stats cards.
type UserStats struct {
	TodaySolved    bool `json:"today_solved"`
	TotalSolved    int  `json:"total_solved"`
	SolvedEasy     int  `json:"solved_easy"`
	SolvedMedium   int  `json:"solved_medium"`
	SolvedHard     int  `json:"solved_hard"`
	TotalAttempts  int  `json:"total_attempts"`
	TotalHintsUsed int  `json:"total_hints_used"`
	CurrentStreak  int  `json:"current_streak"`
	LongestStreak  int  `json:"longest_streak"`
	XP             int  `json:"xp"`
}
