package model

import "context"

// Message is an outgoing notification rendered from a template by a
// downstream mailer.
type Message struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Context  map[string]any `json:"context,omitempty"`
}

// Notifier hands messages off for delivery.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
