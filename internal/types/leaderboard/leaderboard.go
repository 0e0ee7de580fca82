package leaderboard

type LeaderboardEntry struct {
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Avatar         string `json:"avatar,omitempty"`
	Points         int    `json:"points"`
	CompletionRate int    `json:"completionRate"`
	Streak         int    `json:"streak"`
	Rank           int    `json:"rank"`
}

type Leaderboard struct {
	Entries      []*LeaderboardEntry `json:"entries"`
	UserPosition *LeaderboardEntry   `json:"userPosition"`
	TotalUsers   int                 `json:"totalUsers"`
}
