package service

import "context"

// Notifier is the notification transport boundary. Implementations deliver
// a plain-text message to a single recipient address.
//
// Delivery guarantees are the caller's concern: the trigger engine treats
// failures as non-fatal (fire-and-forget), while the digest job propagates
// them so silent mass failure stays visible to the operator.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}
