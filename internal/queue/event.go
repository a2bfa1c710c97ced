// Package queue defines the events exchanged over RabbitMQ and the
// background consumer that handles them.
package queue

// Queue names.  Both queues are durable.
const (
	SubmissionQueue = "submission.received"
	ContentQueue    = "content.changed"
)

// SubmissionReceivedEvent is published after a pitch or contact form was
// accepted, whether or not the notification email went out.
type SubmissionReceivedEvent struct {
	Kind       string `json:"kind"` // "pitch" or "contact"
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	EmailSent  bool   `json:"email_sent"`
	EmailID    string `json:"email_id,omitempty"`
	ReceivedAt string `json:"received_at"`
}

// ContentChangedEvent is published after every applied admin write.
type ContentChangedEvent struct {
	Table     string `json:"table"`
	ID        string `json:"id,omitempty"`
	Action    string `json:"action"` // create, update, delete or save
	AdminID   string `json:"admin_id,omitempty"`
	ChangedAt string `json:"changed_at"`
}
