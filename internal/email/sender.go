package email

import "context"

// Message is an outbound notification email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// Sender delivers notification emails through an external provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
