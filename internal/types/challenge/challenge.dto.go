package challenge

type CreateChallengeRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
	Duration     int        `json:"duration"`
	Difficulty   Difficulty `json:"difficulty"`
	CoverImage   string     `json:"coverImage,omitempty"`
	DailyPrompts []string   `json:"dailyPrompts"`
}

// UpdateChallengeRequest carries a partial update; nil fields are left untouched.
type UpdateChallengeRequest struct {
	Title        *string     `json:"title,omitempty"`
	Description  *string     `json:"description,omitempty"`
	StartDate    *string     `json:"startDate,omitempty"`
	EndDate      *string     `json:"endDate,omitempty"`
	Duration     *int        `json:"duration,omitempty"`
	Difficulty   *Difficulty `json:"difficulty,omitempty"`
	CoverImage   *string     `json:"coverImage,omitempty"`
	DailyPrompts []string    `json:"dailyPrompts,omitempty"`
}
