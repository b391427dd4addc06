package middleware

import (
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitConfig carries the knobs for the global limiter.
type RateLimitConfig struct {
	// RequestsPerPeriod is the number of requests allowed per Period.
	RequestsPerPeriod int
	// Period defaults to one second, making RequestsPerPeriod an RPS cap.
	Period time.Duration
	Store  limiter.Store
}

// NewMemoryStore returns an in-process limiter store.
func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

// NewRedisStore returns a limiter store backed by the redis at redisURL.
func NewRedisStore(redisURL string) (limiter.Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	return redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "pinpoint:ratelimit",
	})
}

// RateLimit enforces a per-client request budget keyed by IP.
func RateLimit(config RateLimitConfig) mux.MiddlewareFunc {
	period := config.Period
	if period == 0 {
		period = time.Second
	}
	store := config.Store
	if store == nil {
		store = NewMemoryStore()
	}

	instance := limiter.New(store, limiter.Rate{
		Period: period,
		Limit:  int64(config.RequestsPerPeriod),
	})
	return stdlib.NewMiddleware(instance).Handler
}
