package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"moodjournal/internal/metrics"
)

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	// Hit records one request and returns the count in the current window.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisLimiter shares counters across server processes.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "ratelimit:"}
}

func (l *RedisLimiter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := l.prefix + key
	val, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	// TTL is set only when the window opens.
	if val == 1 {
		if err := l.client.Expire(ctx, k, window).Err(); err != nil {
			return val, err
		}
	}
	return val, nil
}

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter is the single-process limiter used when REDIS_URL is unset.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
	hits    int
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: map[string]*memoryWindow{}, now: time.Now}
}

func (l *MemoryLimiter) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.hits++
	if l.hits%1000 == 0 {
		for k, w := range l.windows {
			if !now.Before(w.resetAt) {
				delete(l.windows, k)
			}
		}
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(window)}
		l.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// KeyFunc derives the rate-limit key of a request.
type KeyFunc func(r *http.Request) string

// ByIP keys requests on the client address.
func ByIP(r *http.Request) string {
	return "ip:" + getClientIP(r)
}

// ByUser keys requests on the authenticated user, falling back to the
// client address. It must run after RequireAuth.
func ByUser(r *http.Request) string {
	if id, ok := UserIDFromContext(r.Context()); ok {
		return "user:" + strconv.Itoa(id)
	}
	return ByIP(r)
}

// RateLimit rejects requests beyond limit per window with 429. Limiter errors
// let the request through.
func RateLimit(l Limiter, scope string, limit int, window time.Duration, key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := scope + ":" + key(r)
			count, err := l.Hit(r.Context(), k, window)
			if err != nil {
				slog.Error("rate limit error", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(maxInt64(0, int64(limit)-count), 10))
			if count > int64(limit) {
				metrics.RateLimited.WithLabelValues(scope).Inc()
				slog.Warn("rate limit exceeded", "scope", scope, "key", k, "path", r.URL.Path)
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", window.Seconds()))
				jsonError(w, http.StatusTooManyRequests, "too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// getClientIP prefers proxy headers over RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
