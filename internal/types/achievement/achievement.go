package achievement

type CriteriaType string

const (
	CriteriaTotalDays CriteriaType = "total_days"
	CriteriaStreak    CriteriaType = "streak"
)

type Achievement struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Icon          string       `json:"icon"`
	CriteriaType  CriteriaType `json:"criteriaType"`
	CriteriaValue int          `json:"criteriaValue"`
}

type AchievementWithStatus struct {
	Achievement
	Unlocked bool `json:"unlocked"`
}

// Catalog is the fixed badge list, in display order.
var Catalog = []Achievement{
	{ID: "first-step", Name: "First Step", Description: "Completed your first challenge day", Icon: "🎯", CriteriaType: CriteriaTotalDays, CriteriaValue: 1},
	{ID: "week-warrior", Name: "Week Warrior", Description: "7-day completion streak", Icon: "🔥", CriteriaType: CriteriaStreak, CriteriaValue: 7},
	{ID: "consistency-king", Name: "Consistency King", Description: "15 days completed", Icon: "👑", CriteriaType: CriteriaTotalDays, CriteriaValue: 15},
	{ID: "challenge-champion", Name: "Challenge Champion", Description: "30 days completed", Icon: "🏆", CriteriaType: CriteriaTotalDays, CriteriaValue: 30},
}

// Met reports whether a user with the given completed days and longest
// streak has earned a.
func (a Achievement) Met(completedDays, longestStreak int) bool {
	switch a.CriteriaType {
	case CriteriaTotalDays:
		return completedDays >= a.CriteriaValue
	case CriteriaStreak:
		return longestStreak >= a.CriteriaValue
	}
	return false
}

func Evaluate(completedDays, longestStreak int) []AchievementWithStatus {
	out := make([]AchievementWithStatus, 0, len(Catalog))
	for _, a := range Catalog {
		out = append(out, AchievementWithStatus{Achievement: a, Unlocked: a.Met(completedDays, longestStreak)})
	}
	return out
}
