package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const msgRateLimited = "слишком много запросов, попробуйте позже"

// WindowCounter счетчик запросов в фиксированном окне
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter счетчик окна в Redis, общий для всех экземпляров сервиса
type RedisCounter struct {
	rdb *redis.Client
}

// NewRedisCounter создает счетчик поверх клиента Redis
func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// Incr увеличивает счетчик ключа, при первом обращении задает TTL окна
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := fixedWindowScript.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("rate limit script: %w", err)
	}
	return count, nil
}

// RateLimit ограничивает число запросов с одного адреса в окне.
// Ошибка счетчика пропускает запрос: портал не должен падать вместе с Redis
func RateLimit(counter WindowCounter, limit int, window time.Duration, prefix string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := prefix + ":" + clientIP(r)
			count, err := counter.Incr(r.Context(), key, window)
			if err != nil {
				logger.Warn("RateLimit: counter unavailable, passing request: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(limit) {
				logger.Warn("RateLimit: %s exceeded %d requests per %s", key, limit, window)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
