package mailer

import "time"

// NotificationJob is the JSON payload put on the RabbitMQ push queue.
// The worker resolves UserID to a device token and an email address.
type NotificationJob struct {
	UserID string         `json:"user_id"`
	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Kind   string         `json:"kind,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
	SentAt time.Time      `json:"sent_at"`
}
