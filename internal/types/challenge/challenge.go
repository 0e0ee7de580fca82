package challenge

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

type Challenge struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
	Duration     int        `json:"duration"`
	Difficulty   Difficulty `json:"difficulty"`
	CoverImage   string     `json:"coverImage,omitempty"`
	DailyPrompts []string   `json:"dailyPrompts"`
	Participants int        `json:"participants"`
	CreatedBy    string     `json:"createdBy"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (c *Challenge) Clone() *Challenge {
	cp := *c
	cp.DailyPrompts = append([]string{}, c.DailyPrompts...)
	return &cp
}

// Progress is a member's standing in one joined challenge.
type Progress struct {
	Challenge     *Challenge `json:"challenge"`
	CompletedDays int        `json:"completedDays"`
	Percentage    int        `json:"percentage"`
	LoggedToday   bool       `json:"loggedToday"`
}

type Overview struct {
	Joined    []*Challenge `json:"joined"`
	Available []*Challenge `json:"available"`
}

type AdminStats struct {
	TotalChallenges   int `json:"totalChallenges"`
	ActiveChallenges  int `json:"activeChallenges"`
	TotalParticipants int `json:"totalParticipants"`
}
