package notification

import "time"

type DeviceToken struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// Push is one message addressed to a set of users.
type Push struct {
	UserIDs []string
	Title   string
	Body    string
	Data    map[string]any
}
