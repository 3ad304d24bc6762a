package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	serr "github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/logger"
)

// RateDecision — результат проверки лимита.
type RateDecision struct {
	Allowed   bool
	Count     int
	WindowEnd time.Time
}

// RedisRateLimiter — fixed window счётчик в Redis (INCR + EXPIRE).
//
// При ошибках Redis запрос пропускается: недоступный лимитер
// не должен блокировать вход пользователей.
type RedisRateLimiter struct {
	client  *redis.Client
	log     *logger.HTTPLogger
	prefix  string
	timeout time.Duration
}

// NewRedisRateLimiter создаёт лимитер поверх уже открытого клиента.
func NewRedisRateLimiter(client *redis.Client, log *logger.HTTPLogger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:  client,
		log:     log,
		prefix:  "ratelimit:",
		timeout: 250 * time.Millisecond,
	}
}

// Allow увеличивает счётчик key и сообщает, укладывается ли он в limit за window.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) RateDecision {
	if limit <= 0 {
		return RateDecision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key

	var (
		incr *redis.IntCmd
		ttlc *redis.DurationCmd
	)
	if _, err := rl.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, redisKey)
		ttlc = p.TTL(ctx, redisKey)
		return nil
	}); err != nil {
		rl.logRedisError("incr", err)
		return RateDecision{Allowed: true}
	}
	counter := incr.Val()

	// Срок жизни ставится не только на первом запросе окна: если тот EXPIRE
	// не дошёл, ключ без TTL навсегда заблокировал бы IP.
	ttl := ttlc.Val()
	if ttl < 0 {
		if err := rl.client.Expire(ctx, redisKey, window).Err(); err != nil {
			rl.logRedisError("expire", err)
		}
		ttl = window
	}

	return RateDecision{
		Allowed:   int(counter) <= limit,
		Count:     int(counter),
		WindowEnd: time.Now().Add(ttl),
	}
}

func (rl *RedisRateLimiter) logRedisError(op string, err error) {
	if rl.log == nil {
		return
	}
	rl.log.Error("redis rate limiter error", zap.String("op", op), zap.Error(err))
}

// RateLimit ограничивает число запросов с одного IP к маршруту route.
// Ключ в Redis: ratelimit:<route>:<ip>. nil лимитер отключает ограничение.
func RateLimit(rl *RedisRateLimiter, route string, limit int, window time.Duration, m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rl == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := rl.Allow(r.Context(), route+":"+clientIP(r), limit, window)

			remaining := limit - d.Count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !d.WindowEnd.IsZero() {
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.WindowEnd.Unix(), 10))
			}

			if !d.Allowed {
				m.recordRateLimitHit(route)
				retry := int(time.Until(d.WindowEnd).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				JSONError(w, http.StatusTooManyRequests, serr.ErrTooManyRequests.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "unknown"
	}
	return host
}
