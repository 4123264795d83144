package projector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffPolicy_Delay_ExponentialAndCapped(t *testing.T) {
	p := BackoffPolicy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, Factor: 2.0, MaxAttempts: 5}

	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 4*time.Second, p.Delay(3))
	assert.Equal(t, 8*time.Second, p.Delay(4))
	assert.Equal(t, 10*time.Second, p.Delay(5), "delay must be capped at MaxDelay")
}

func TestBackoffPolicy_Exhausted(t *testing.T) {
	p := BackoffPolicy{MaxAttempts: 3}

	assert.False(t, p.Exhausted(1))
	assert.False(t, p.Exhausted(2))
	assert.True(t, p.Exhausted(3))
	assert.True(t, p.Exhausted(4))
}
