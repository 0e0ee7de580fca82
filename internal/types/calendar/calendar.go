package calendar

type CalendarDay struct {
	Date      string `json:"date"`
	HasLog    bool   `json:"hasLog"`
	Completed bool   `json:"completed"`
	IsToday   bool   `json:"isToday"`
}

type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}
