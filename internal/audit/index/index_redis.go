package index

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tracker/internal/audit"
)

const keyPrefix = "tracker:latest:"

// touchScript sets the field only when the stored value is missing or older, so
// out-of-order deliveries never move an entity back in time.
var touchScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if not cur or tonumber(cur) < tonumber(ARGV[2]) then
	redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0
`)

// RedisIndex keeps one hash per namespace: field entity key, value event millis.
type RedisIndex struct {
	client *redis.Client
}

func NewRedisIndex(client *redis.Client) *RedisIndex {
	return &RedisIndex{client: client}
}

func (i *RedisIndex) Touch(ctx context.Context, msg audit.Message) error {
	err := touchScript.Run(ctx, i.client,
		[]string{keyPrefix + msg.EntityID.Namespace},
		msg.EntityID.Key(), msg.Time,
	).Err()
	if err != nil {
		return fmt.Errorf("touch latest entity: %w", err)
	}
	return nil
}

func (i *RedisIndex) Latest(ctx context.Context, entity audit.EntityID) (time.Time, bool, error) {
	raw, err := i.client.HGet(ctx, keyPrefix+entity.Namespace, entity.Key()).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get latest entity: %w", err)
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse latest entity time %q: %w", raw, err)
	}
	return time.UnixMilli(millis).UTC(), true, nil
}
