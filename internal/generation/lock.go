package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/quizset"
)

// Locker is an advisory lock keyed on the normalized generation tuple.
// Acquire reports false, without error, when another holder has the key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX.
type RedisLocker struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

var _ Locker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client, prefix string, logger zerolog.Logger) *RedisLocker {
	if prefix == "" {
		prefix = "quizpin:generation:"
	}
	return &RedisLocker{
		client: client,
		prefix: prefix,
		logger: logger.With().Str("component", "generation_lock").Logger(),
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	redisKey := l.prefix + key
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire generation lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warn().Err(err).Str("key", redisKey).Msg("generation lock release failed, waiting for ttl")
		}
	}
	return release, true, nil
}

// lockKey hashes the tuple so arbitrary topic text stays a bounded key.
func lockKey(key quizset.GenerationKey) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x1f%d\x1f%s\x1f%s", key.Topic, key.Count, key.Difficulty, key.Type)))
	return hex.EncodeToString(sum[:])
}
