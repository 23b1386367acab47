// Package mail is the outbound email gateway. Callers treat delivery as
// best-effort notification: a failed send never rolls back state that
// was already committed.
package mail

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a message and reports the provider message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
