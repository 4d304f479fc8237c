package domain

// Question is one multiple-choice question from the bank. Options are
// indexed 0..len(Options)-1 and Correct points at exactly one of them.
type Question struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Correct int      `json:"correct_option_id"`
}

// Valid reports whether the correct-option index is within bounds.
func (q Question) Valid() bool {
	return len(q.Options) > 0 && q.Correct >= 0 && q.Correct < len(q.Options)
}

// User mirrors a row in the users table.
type User struct {
	TelegramID int64  `json:"telegram_id"`
	FullName   string `json:"full_name"`
	Class      string `json:"class"`
	Score      int    `json:"score"`
}

// QuizResult is the final outcome of one finished quiz run.
type QuizResult struct {
	UserID int64 `json:"user_id"`
	Score  int   `json:"score"`
	Total  int   `json:"total"`
}
