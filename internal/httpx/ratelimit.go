package httpx

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-storefront.git/internal/redisx"
)

// RateLimit is a fixed-window per-IP limiter backed by Redis, an operational
// safeguard in front of the API rather than a correctness mechanism. Redis
// being down fails open.
func RateLimit(rdb *redis.Client, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			window := time.Now().Unix() / 60
			key := fmt.Sprintf(redisx.KeyRateLimit, r.RemoteAddr, window)
			n, err := rdb.Incr(r.Context(), key).Result()
			if err == nil {
				if n == 1 {
					rdb.Expire(r.Context(), key, 2*time.Minute)
				}
				if n > int64(perMinute) {
					writeJSON(w, http.StatusTooManyRequests, map[string]any{
						"success": false,
						"message": "Too many requests from this IP, please try again later.",
					})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
