package mocks

import (
	"context"
	"sync"
)

// SentMessage records one dispatched notification.
type SentMessage struct {
	Recipient string
	Subject   string
	Body      string
}

// Notifier is a recording implementation of service.Notifier for tests.
type Notifier struct {
	mu   sync.Mutex
	sent []SentMessage

	// SendErr, when set, is returned by every Send call.
	SendErr error
}

// NewNotifier creates a recording notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Send records the message, or fails with SendErr when set.
func (n *Notifier) Send(ctx context.Context, recipient, subject, body string) error {
	if n.SendErr != nil {
		return n.SendErr
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SentMessage{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded messages.
func (n *Notifier) Sent() []SentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentMessage, len(n.sent))
	copy(out, n.sent)
	return out
}
