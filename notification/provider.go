package notification

import "context"

// MulticastResult counts per-token outcomes of one multicast call.
type MulticastResult struct {
	SuccessCount int
	FailureCount int
}

// PushProvider delivers payloads to device tokens.
type PushProvider interface {
	Send(ctx context.Context, token string, p Payload) error
	SendMulticast(ctx context.Context, tokens []string, p Payload) (MulticastResult, error)
}

// Notifier is the fire-and-forget side of the dispatcher that workflows depend on.
type Notifier interface {
	Notify(msg Message)
	NotifyAll(b Broadcast)
}
