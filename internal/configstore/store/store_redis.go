package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"tracker/internal/configstore/models"
	"tracker/pkg/platform/sentinel"
)

// DefaultRedisHash holds every configuration value as one field.
const DefaultRedisHash = "tracker:config"

const scanBatch = 100

// RedisStore keeps configuration values as fields of a single Redis hash.
// HSETNX and HDEL are atomic, so duplicate adds and double deletes are
// detected by Redis itself.
type RedisStore struct {
	client *redis.Client
	hash   string
}

type RedisOption func(*RedisStore)

// WithHash overrides the hash key, mainly to isolate tests.
func WithHash(hash string) RedisOption {
	return func(s *RedisStore) {
		s.hash = hash
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, hash: DefaultRedisHash}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) Create(ctx context.Context, entry models.Entry) error {
	created, err := s.client.HSetNX(ctx, s.hash, entry.Key, entry.Value).Result()
	if err != nil {
		return fmt.Errorf("hsetnx config entry: %w", err)
	}
	if !created {
		return sentinel.ErrAlreadyExists
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (models.Entry, error) {
	value, err := s.client.HGet(ctx, s.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return models.Entry{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Entry{}, fmt.Errorf("hget config entry: %w", err)
	}
	return models.Entry{Key: key, Value: value}, nil
}

// ListPrefix walks the hash with HSCAN. The prefix is glob-escaped and the
// match re-checked, since HSCAN may return a field more than once.
func (s *RedisStore) ListPrefix(ctx context.Context, prefix string) ([]models.Entry, error) {
	seen := map[string]string{}
	iter := s.client.HScan(ctx, s.hash, 0, escapeGlob(prefix)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		field := iter.Val()
		if !iter.Next(ctx) {
			break
		}
		if strings.HasPrefix(field, prefix) {
			seen[field] = iter.Val()
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("hscan config entries: %w", err)
	}

	entries := make([]models.Entry, 0, len(seen))
	for key, value := range seen {
		entries = append(entries, models.Entry{Key: key, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (s *RedisStore) All(ctx context.Context) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, s.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall config entries: %w", err)
	}
	return values, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	n, err := s.client.HDel(ctx, s.hash, key).Result()
	if err != nil {
		return fmt.Errorf("hdel config entry: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
