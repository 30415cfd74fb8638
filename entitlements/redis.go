package entitlements

import (
	"context"
	"fmt"
	"time"

	"tooncraft/config"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed entitlement store.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// Prefix namespaces all keys, default "tooncraft".
	Prefix string
}

// RedisStore keeps entitlement counters in Redis so they survive restarts
// and are shared across instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// consumeScript atomically decides and records one session spend server-side
// so concurrent requests cannot double-spend a user's last trial.
//
// KEYS[1] = unlimited flag, KEYS[2] = trials remaining, KEYS[3] = daily count
// ARGV[1] = free trial allowance, ARGV[2] = daily limit, ARGV[3] = window seconds
var consumeScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  local used = redis.call("INCR", KEYS[3])
  if used == 1 then
    redis.call("EXPIRE", KEYS[3], tonumber(ARGV[3]))
  end
  if used > tonumber(ARGV[2]) then
    redis.call("DECR", KEYS[3])
    return 0
  end
  return 1
end
redis.call("SET", KEYS[2], ARGV[1], "NX")
local left = redis.call("DECR", KEYS[2])
if left < 0 then
  redis.call("INCR", KEYS[2])
  return 0
end
return 1
`)

// NewRedisStore connects and verifies the Redis backend.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "tooncraft"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) keys(userID string) (unlimited, trials, daily string) {
	return fmt.Sprintf("%s:ultra:%s", r.prefix, userID),
		fmt.Sprintf("%s:trials:%s", r.prefix, userID),
		fmt.Sprintf("%s:daily:%s", r.prefix, userID)
}

func (r *RedisStore) ConsumeVideoSession(ctx context.Context, userID string) (bool, error) {
	unlimited, trials, daily := r.keys(userID)
	res, err := consumeScript.Run(ctx, r.client,
		[]string{unlimited, trials, daily},
		config.FreeVideoTrials, config.DailyVideoLimit, int((24 * time.Hour).Seconds())).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (r *RedisStore) Remaining(ctx context.Context, userID string) (int, error) {
	unlimitedKey, trialsKey, dailyKey := r.keys(userID)

	isUnlimited, err := r.client.Exists(ctx, unlimitedKey).Result()
	if err != nil {
		return 0, err
	}
	if isUnlimited == 1 {
		used, err := r.client.Get(ctx, dailyKey).Int()
		if err != nil && err != redis.Nil {
			return 0, err
		}
		left := config.DailyVideoLimit - used
		if left < 0 {
			left = 0
		}
		return left, nil
	}

	left, err := r.client.Get(ctx, trialsKey).Int()
	if err == redis.Nil {
		return config.FreeVideoTrials, nil
	}
	if err != nil {
		return 0, err
	}
	if left < 0 {
		left = 0
	}
	return left, nil
}

func (r *RedisStore) SetUnlimited(ctx context.Context, userID string, unlimited bool) error {
	unlimitedKey, _, dailyKey := r.keys(userID)
	if unlimited {
		return r.client.Set(ctx, unlimitedKey, "1", 0).Err()
	}
	// Dropping the flag also clears today's window.
	return r.client.Del(ctx, unlimitedKey, dailyKey).Err()
}
