package challenge

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Type string

const (
	TypeBugFix       Type = "bug-fix"
	TypeCompleteLine Type = "complete-line"
	TypeFindProblem  Type = "find-problem"
)

// Challenge is one day's puzzle. At most one active challenge exists per date.
type Challenge struct {
	ID            int        `json:"id" db:"id"`
	Date          string     `json:"date" db:"date"` // YYYY-MM-DD
	Type          Type       `json:"type" db:"type"`
	Difficulty    Difficulty `json:"difficulty" db:"difficulty"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	Code          string     `json:"code" db:"code"`
	BugLine       *int       `json:"bugLine" db:"bug_line"` // 1-indexed
	CorrectAnswer string     `json:"correctAnswer" db:"correct_answer"`
	Hints         []string   `json:"hints" db:"hints"`
	Explanation   string     `json:"explanation" db:"explanation"`
	IsActive      bool       `json:"isActive" db:"is_active"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// Public strips the answer fields before a challenge is sent to a client
// that has not resolved it yet.
type Public struct {
	ID          int        `json:"id"`
	Date        string     `json:"date"`
	Type        Type       `json:"type"`
	Difficulty  Difficulty `json:"difficulty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Code        string     `json:"code"`
	BugLine     *int       `json:"bugLine"`
	HintCount   int        `json:"hintCount"`
}

func (c *Challenge) Public() *Public {
	return &Public{
		ID:          c.ID,
		Date:        c.Date,
		Type:        c.Type,
		Difficulty:  c.Difficulty,
		Title:       c.Title,
		Description: c.Description,
		Code:        c.Code,
		BugLine:     c.BugLine,
		HintCount:   len(c.Hints),
	}
}

type CreateChallengeRequest struct {
	ID            int        `json:"id"`
	Date          string     `json:"date"`
	Type          Type       `json:"type"`
	Difficulty    Difficulty `json:"difficulty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Code          string     `json:"code"`
	BugLine       *int       `json:"bugLine"`
	CorrectAnswer string     `json:"correctAnswer"`
	Hints         []string   `json:"hints"`
	Explanation   string     `json:"explanation"`
}
