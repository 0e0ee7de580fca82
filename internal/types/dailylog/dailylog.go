package dailylog

import "time"

type DailyLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ChallengeID string    `json:"challengeId"`
	Date        string    `json:"date"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	PhotoURL    *string   `json:"photoUrl,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type SaveDailyLogRequest struct {
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	PhotoURL  *string `json:"photoUrl,omitempty"`
}

type FeedItem struct {
	*DailyLog
	UserName       string `json:"userName"`
	UserAvatar     string `json:"userAvatar,omitempty"`
	ChallengeTitle string `json:"challengeTitle"`
}
