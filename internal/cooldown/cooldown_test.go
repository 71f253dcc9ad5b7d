package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Test never reminded before
func TestEvaluate_NeverSent(t *testing.T) {
	now := time.Now()

	state := Evaluate(nil, now, DefaultHours)

	assert.False(t, state.IsActive)
	assert.Equal(t, 0, state.HoursRemaining)
}

// Test reminder sent 23 hours ago, cooldown still active with 1 hour left
func TestEvaluate_SentTwentyThreeHoursAgo(t *testing.T) {
	now := time.Now()
	lastSent := now.Add(-23 * time.Hour)

	state := Evaluate(&lastSent, now, DefaultHours)

	assert.True(t, state.IsActive)
	assert.Equal(t, 1, state.HoursRemaining)
}

// Test reminder sent 25 hours ago, cooldown expired
func TestEvaluate_SentTwentyFiveHoursAgo(t *testing.T) {
	now := time.Now()
	lastSent := now.Add(-25 * time.Hour)

	state := Evaluate(&lastSent, now, DefaultHours)

	assert.False(t, state.IsActive)
	assert.Equal(t, 0, state.HoursRemaining)
}

// Test reminder sent just now, full cooldown remaining
func TestEvaluate_SentJustNow(t *testing.T) {
	now := time.Now()
	lastSent := now

	state := Evaluate(&lastSent, now, DefaultHours)

	assert.True(t, state.IsActive)
	assert.Equal(t, 24, state.HoursRemaining)
}

// Test the exact boundary, 24 hours elapsed means no cooldown anymore
func TestEvaluate_ExactBoundary(t *testing.T) {
	now := time.Now()
	lastSent := now.Add(-24 * time.Hour)

	state := Evaluate(&lastSent, now, DefaultHours)

	assert.False(t, state.IsActive)
	assert.Equal(t, 0, state.HoursRemaining)
}

// Test fractional elapsed time rounds the remaining hours up
func TestEvaluate_FractionalHoursRoundUp(t *testing.T) {
	now := time.Now()
	lastSent := now.Add(-90 * time.Minute) // 1.5h elapsed, 22.5h remaining

	state := Evaluate(&lastSent, now, DefaultHours)

	assert.True(t, state.IsActive)
	assert.Equal(t, 23, state.HoursRemaining)
}
