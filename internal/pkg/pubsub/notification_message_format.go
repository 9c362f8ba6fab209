package pubsub

import "time"

// NotificationMessage is the payload consumed by the notification sender for
// fee reminders and payment receipts.
type NotificationMessage struct {
	NotificationType string    `json:"notificationType"`
	Channel          string    `json:"channel"`
	StudentID        string    `json:"studentId"`
	StudentName      string    `json:"studentName"`
	Recipient        string    `json:"recipient"`
	Amount           float64   `json:"amount"`
	Message          string    `json:"message"`
	PublishedAt      time.Time `json:"publishedAt"`
}

// Attributes are the Pub/Sub attributes subscribers filter on.
func (m NotificationMessage) Attributes() map[string]string {
	return map[string]string{
		"notificationType": m.NotificationType,
		"channel":          m.Channel,
	}
}
