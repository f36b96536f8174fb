package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingLogScript trims the ZSET to the window, then admits the call when
// there is room. Returns {allowed, count, oldest_ms}.
var slidingLogScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window)
	return {1, count + 1, 0}
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
return {0, count, tonumber(oldest[2])}
`)

// RedisLimiter shares the sliding log across instances.
type RedisLimiter struct {
	rdb    *redis.Client
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{rdb: rdb, window: window, now: time.Now}
}

// Allow fails open: when Redis cannot answer the call is admitted and the
// error is returned for logging.
func (l *RedisLimiter) Allow(ctx context.Context, endpoint, clientKey string, limit int) (Decision, error) {
	if limit <= 0 {
		return unlimited(), nil
	}

	nowMs := l.now().UnixMilli()
	windowMs := l.window.Milliseconds()
	res, err := slidingLogScript.Run(ctx, l.rdb,
		[]string{windowKey(endpoint, clientKey)},
		nowMs, windowMs, limit, strconv.FormatInt(nowMs, 10)+"-"+uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Decision{Allowed: true, Limit: limit, Remaining: -1}, err
	}

	if res[0] == 1 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit - int(res[1])}, nil
	}

	retryAfter := time.Duration(res[2]+windowMs-nowMs) * time.Millisecond
	if retryAfter < 0 {
		retryAfter = 0
	}
	return Decision{Allowed: false, Limit: limit, RetryAfter: retryAfter}, nil
}
