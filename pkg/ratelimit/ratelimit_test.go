package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestAttemptLimiter_AllowsUpToLimitThenBlocks(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewAttemptLimiter(3, time.Minute)
	rl.now = clock.Now
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("login:1.2.3.4"), "attempt %d", i+1)
	}
	assert.False(t, rl.Allow("login:1.2.3.4"))
	assert.True(t, rl.Allow("login:5.6.7.8"), "other keys are independent")

	assert.Equal(t, 61, rl.RetryAfterSeconds("login:1.2.3.4"))

	clock.Advance(61 * time.Second)
	assert.True(t, rl.Allow("login:1.2.3.4"), "new window starts after expiry")
}

func TestAttemptLimiter_Reset(t *testing.T) {
	rl := NewAttemptLimiter(1, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))

	rl.Reset("k")
	assert.True(t, rl.Allow("k"))
	assert.Equal(t, 0, rl.RetryAfterSeconds("unknown"))
}

func TestAttemptLimiter_CleanupDropsExpired(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	rl := NewAttemptLimiter(1, time.Second)
	rl.now = clock.Now
	defer rl.Stop()

	rl.Allow("a")
	clock.Advance(2 * time.Second)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.buckets)
}

func TestAttemptLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewAttemptLimiter(1, time.Second)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestMessageRateLimiter_Cooldown(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewMessageRateLimiter(2, 5*time.Second, 15*time.Second)
	rl.now = clock.Now
	defer rl.Stop()

	assert.True(t, rl.Allow(7))
	assert.True(t, rl.Allow(7))
	assert.False(t, rl.Allow(7), "third message within window starts cooldown")
	assert.Equal(t, 16, rl.CooldownSeconds(7))

	clock.Advance(10 * time.Second)
	assert.False(t, rl.Allow(7), "still cooling down even though window passed")

	clock.Advance(6 * time.Second)
	assert.True(t, rl.Allow(7))
	assert.Equal(t, 0, rl.CooldownSeconds(7))
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for first hop", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.1.1.1:5000", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.9"}, "1.1.1.1:5000", "10.0.0.9"},
		{"remote addr", nil, "192.168.1.5:4321", "192.168.1.5"},
		{"remote without port", nil, "192.168.1.5", "192.168.1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ExtractIP(r))
		})
	}
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "45 second(s)", FormatRetryMessage(45))
	assert.Equal(t, "2 minute(s)", FormatRetryMessage(120))
}
