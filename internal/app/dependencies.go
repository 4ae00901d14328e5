package app

import (
	"time"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewLimiterStore wires a rate limiter store backed by Redis. Counters are
// shared across API replicas so the limit holds fleet-wide.
func NewLimiterStore(rdb *redis.Client) (limiter.Store, error) {
	return limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "dapur:ratelimit"})
}

// NewIPLimiter builds the API-wide per-client limiter.
func NewIPLimiter(store limiter.Store, period time.Duration, max int) *limiter.Limiter {
	if period <= 0 {
		period = time.Minute
	}
	if max <= 0 {
		max = 120
	}
	return limiter.New(store, limiter.Rate{Period: period, Limit: int64(max)})
}
