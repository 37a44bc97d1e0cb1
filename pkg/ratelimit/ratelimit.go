// Package ratelimit, in-memory sabit pencereli istek sınırlayıcıları sağlar.
//
// AttemptLimiter, kimlik doğrulama uçlarını (login, forgot-password,
// reset-password) IP bazlı korur. MessageRateLimiter ise oturum açmış
// kullanıcının mesaj gönderimini sınırlar.
//
// Paket hiçbir proje içi pakete bağımlı değildir; handler ve middleware
// katmanları arasında import cycle oluşmaz.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// bucket, bir anahtar için pencere içi deneme sayısı.
type bucket struct {
	count       int
	windowStart time.Time
}

// AttemptLimiter, anahtar (genelde "uç:IP") başına pencere içinde en fazla
// maxAttempts denemeye izin verir. Pencere dolunca sayaç sıfırlanır.
//
//	limiter := NewAttemptLimiter(5, 2*time.Minute)
//	if !limiter.Allow("login:" + ip) { return 429 }
//	// başarılı girişte:
//	limiter.Reset("login:" + ip)
type AttemptLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewAttemptLimiter, limiter'ı oluşturur ve arka plan temizliğini başlatır.
// Kapatırken Stop çağrılmalıdır.
func NewAttemptLimiter(maxAttempts int, window time.Duration) *AttemptLimiter {
	rl := &AttemptLimiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	go rl.cleanupLoop(time.Minute)
	return rl
}

// Allow, anahtar için bir deneme kaydeder ve limit aşılmadıysa true döner.
// Reddedilen denemeler de sayılır.
func (rl *AttemptLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.windowStart) > rl.window {
		rl.buckets[key] = &bucket{count: 1, windowStart: now}
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset, anahtarın sayacını siler (başarılı giriş sonrası).
func (rl *AttemptLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, key)
}

// RetryAfterSeconds, pencerenin bitmesine kalan süre (Retry-After header'ı için).
func (rl *AttemptLimiter) RetryAfterSeconds(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		return 0
	}
	remaining := rl.window - rl.now().Sub(b.windowStart)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Stop, temizlik goroutine'ini durdurur. Birden fazla çağrılabilir.
func (rl *AttemptLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *AttemptLimiter) cleanupLoop(every time.Duration) {
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

func (rl *AttemptLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, key)
		}
	}
}

// ExtractIP, client IP'sini çıkarır.
// Öncelik: X-Forwarded-For'un ilk değeri, X-Real-IP, RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, kalan süreyi okunabilir hale getirir: 120 → "2 minute(s)".
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
