package notification

import (
	"context"

	"careerlink/logs"
)

// LogProvider accepts every token and only logs. It stands in when FCM is not configured.
type LogProvider struct{}

func (LogProvider) Send(_ context.Context, token string, p Payload) error {
	logs.With("push").WithField("type", p.Data["type"]).WithField("title", p.Title).Debug("push (log only)")
	return nil
}

func (LogProvider) SendMulticast(_ context.Context, tokens []string, p Payload) (MulticastResult, error) {
	logs.With("push").WithField("type", p.Data["type"]).WithField("tokens", len(tokens)).Debug("multicast (log only)")
	return MulticastResult{SuccessCount: len(tokens)}, nil
}
