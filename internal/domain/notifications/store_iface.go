package notifications

type StoreAPI interface {
	Push(n Notification)
	Drain(sessionID string) []Notification
	Forget(sessionID string)
}

// Publisher delivers a notification to live connections. It reports whether anyone
// received it.
type Publisher interface {
	Publish(n Notification) bool
}
