package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// Redis key layout. The floors partition is additionally tracked in a set
// so listing does not require a SCAN over the whole keyspace.
const (
	redisRoomKey     = "roomviz:room"
	redisFloorPrefix = "roomviz:floor:"
	redisFloorIndex  = "roomviz:floors"
	redisVersionKey  = "roomviz:schema"
)

// RedisStore persists blobs in Redis. Intended for deployments where the
// visualizer runs behind more than one process and the file store's data
// directory cannot be shared.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string // host:port
	Password string
	DB       int
}

// NewRedisStore connects to Redis, verifies connectivity, and performs the
// schema upgrade-in-place (recording the version key when absent).
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreRead, err, "connect to redis %s", cfg.Addr)
	}

	if err := client.SetNX(ctx, redisVersionKey, SchemaVersion, 0).Err(); err != nil {
		client.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreWrite, err, "record schema version")
	}

	return &RedisStore{client: client}, nil
}

// PutRoom replaces the room slot.
func (s *RedisStore) PutRoom(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, redisRoomKey, data, 0).Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStoreWrite, err, "write room blob")
	}
	return nil
}

// Room returns the room slot.
func (s *RedisStore) Room(ctx context.Context) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, redisRoomKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeStoreRead, err, "read room blob")
	}
	return data, true, nil
}

// PutFloor writes a generated artifact and indexes its SKU.
func (s *RedisStore) PutFloor(ctx context.Context, sku string, data []byte) error {
	if err := apperrors.ValidateSKU(sku); err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisFloorPrefix+sku, data, 0)
	pipe.SAdd(ctx, redisFloorIndex, sku)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStoreWrite, err, "write floor blob %s", sku)
	}
	return nil
}

// Floor returns the artifact for a SKU.
func (s *RedisStore) Floor(ctx context.Context, sku string) ([]byte, bool, error) {
	if err := apperrors.ValidateSKU(sku); err != nil {
		return nil, false, err
	}
	data, err := s.client.Get(ctx, redisFloorPrefix+sku).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeStoreRead, err, "read floor blob %s", sku)
	}
	return data, true, nil
}

// FloorSKUs lists every persisted SKU.
func (s *RedisStore) FloorSKUs(ctx context.Context) ([]string, error) {
	skus, err := s.client.SMembers(ctx, redisFloorIndex).Result()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreRead, err, "list floors partition")
	}
	return skus, nil
}

// ClearFloors removes every floor blob and the index.
func (s *RedisStore) ClearFloors(ctx context.Context) error {
	skus, err := s.FloorSKUs(ctx)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, sku := range skus {
		pipe.Del(ctx, redisFloorPrefix+sku)
	}
	pipe.Del(ctx, redisFloorIndex)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStoreWrite, err, "clear floors partition")
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
