package notifications

import "time"

// Notification is one transient toast addressed to a console session.
type Notification struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"-"`
	Kind       Kind      `json:"type"`
	Message    string    `json:"message"`
	DurationMS int64     `json:"duration"`
	CreatedAt  time.Time `json:"createdAt"`
}
