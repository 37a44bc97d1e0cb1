package ratelimit

import (
	"sync"
	"time"
)

// messageBucket, bir kullanıcının mesaj sayacı ve ceza bitiş zamanı.
type messageBucket struct {
	count         int
	windowStart   time.Time
	cooldownUntil time.Time
}

// MessageRateLimiter, kullanıcı bazlı mesaj spam koruması.
//
// AttemptLimiter'dan farkı: limit aşılınca pencere bitişini değil, ayrı bir
// cooldown süresini bekletir. Örneğin 5 saniyede 5 mesaj serbest, 6. mesaj
// 15 saniyelik cooldown başlatır ve bu sürede tüm mesajlar reddedilir.
type MessageRateLimiter struct {
	mu          sync.Mutex
	buckets     map[int64]*messageBucket
	maxMessages int
	window      time.Duration
	cooldown    time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMessageRateLimiter, limiter'ı oluşturur ve arka plan temizliğini başlatır.
func NewMessageRateLimiter(maxMessages int, window, cooldown time.Duration) *MessageRateLimiter {
	rl := &MessageRateLimiter{
		buckets:     make(map[int64]*messageBucket),
		maxMessages: maxMessages,
		window:      window,
		cooldown:    cooldown,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	go rl.cleanupLoop(30 * time.Second)
	return rl
}

// Allow, kullanıcının şimdi mesaj gönderip gönderemeyeceğini döner.
func (rl *MessageRateLimiter) Allow(userID int64) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[userID]
	if !ok {
		rl.buckets[userID] = &messageBucket{count: 1, windowStart: now}
		return true
	}

	if !b.cooldownUntil.IsZero() {
		if now.Before(b.cooldownUntil) {
			return false
		}
		*b = messageBucket{count: 1, windowStart: now}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	if b.count > rl.maxMessages {
		b.cooldownUntil = now.Add(rl.cooldown)
		return false
	}
	return true
}

// CooldownSeconds, kalan ceza süresi; cooldown yoksa 0.
func (rl *MessageRateLimiter) CooldownSeconds(userID int64) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[userID]
	if !ok || b.cooldownUntil.IsZero() {
		return 0
	}
	remaining := b.cooldownUntil.Sub(rl.now())
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Stop, temizlik goroutine'ini durdurur.
func (rl *MessageRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *MessageRateLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

// cleanup, hem penceresi hem cooldown'ı bitmiş kayıtları siler.
func (rl *MessageRateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for userID, b := range rl.buckets {
		windowExpired := now.Sub(b.windowStart) > rl.window
		cooldownExpired := b.cooldownUntil.IsZero() || now.After(b.cooldownUntil)
		if windowExpired && cooldownExpired {
			delete(rl.buckets, userID)
		}
	}
}
