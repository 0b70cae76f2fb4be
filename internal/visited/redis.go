package visited

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key this package writes.
const KeyPrefix = "leadharvest:visited:"

const (
	connectionTimeout = 5 * time.Second
	scanBatchSize     = 100
)

// ErrEmptyAddress is returned when no Redis address is configured.
var ErrEmptyAddress = errors.New("redis address is required")

// RedisConfig holds connection settings.
type RedisConfig struct {
	Address  string        `yaml:"address"  env:"REDIS_ADDRESS"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db"       env:"REDIS_DB"`
	TTL      time.Duration `yaml:"ttl"      env:"VISITED_TTL"`
}

// NewRedisClient connects and pings.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisStore shares visited pages between runs. Entries expire after the
// configured TTL so listings are re-fetched eventually; zero keeps them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Interface
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client, ttl time.Duration, log logger.Interface) *RedisStore {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &RedisStore{client: client, ttl: ttl, log: log.WithComponent("visited")}
}

func (s *RedisStore) key(pageURL string) (string, error) {
	k, err := Key(pageURL)
	if err != nil {
		return "", err
	}
	return KeyPrefix + k, nil
}

// Seen reports whether the page was marked. Redis failures are returned so
// the caller can decide to fetch anyway.
func (s *RedisStore) Seen(ctx context.Context, pageURL string) (bool, error) {
	key, err := s.key(pageURL)
	if err != nil {
		return false, err
	}
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.log.Error("Redis error checking page", "url", pageURL, "redis_key", key, "error", err)
		return false, fmt.Errorf("check visited: %w", err)
	}
	return n == 1, nil
}

func (s *RedisStore) Mark(ctx context.Context, pageURL string) error {
	key, err := s.key(pageURL)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, pageURL, s.ttl).Err(); err != nil {
		s.log.Error("Redis error marking page", "url", pageURL, "redis_key", key, "error", err)
		return fmt.Errorf("mark visited: %w", err)
	}
	s.log.Debug("Page marked visited", "url", pageURL, "ttl", s.ttl)
	return nil
}

// Flush deletes every visited key and returns how many were removed.
// SCAN keeps the rest of the database untouched.
func (s *RedisStore) Flush(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, KeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan keys: %w", err)
		}
		if len(keys) > 0 {
			n, delErr := s.client.Del(ctx, keys...).Result()
			if delErr != nil {
				return deleted, fmt.Errorf("delete keys: %w", delErr)
			}
			deleted += int(n)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	s.log.Info("Flushed visited pages", "keys_deleted", deleted)
	return deleted, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
