// Package projector drives a durable JetStream consumer through a
// projection + executor pair: fetch a bounded batch, fold each event
// through the projection, hand its effects to the executor, and ack
// explicitly — nak with backoff on transient failure, term on a failure
// that will never succeed by retrying.
package projector

import (
	"math"
	"time"
)

// BackoffPolicy computes the retry delay for a nak'd message, grounded in
// the teacher's RetryPolicyManager.CalculateDelay (exponential branch).
type BackoffPolicy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64
	MaxAttempts  int
}

func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Factor:       2.0,
		MaxAttempts:  8,
	}
}

// Delay returns the exponential backoff delay for the given 1-based
// delivery attempt, capped at MaxDelay.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return p.InitialDelay
	}
	multiplier := math.Pow(p.Factor, float64(attempt-1))
	delay := time.Duration(float64(p.InitialDelay) * multiplier)
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Exhausted reports whether a message delivered this many times should stop
// retrying and be terminally failed instead of nak'd again.
func (p BackoffPolicy) Exhausted(deliveries int) bool {
	return deliveries >= p.MaxAttempts
}
