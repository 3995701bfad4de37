package sms

import "context"

// Sender delivers one outbound SMS and returns the provider message ID.
type Sender interface {
	Send(ctx context.Context, toPhone, body string) (string, error)
}
