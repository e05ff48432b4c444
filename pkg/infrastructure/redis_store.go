package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resume-builder/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	skillMatrixPrefix    = "skillmatrix:session:"
	skillMatrixLatestKey = "skillmatrix:latest"
)

// RedisSnapshotCache keeps skill matrix snapshots in Redis so sessions
// outlive the process.
type RedisSnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSnapshotCache connects to redisURL. An empty URL disables the
// cache and returns (nil, nil).
func NewRedisSnapshotCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisSnapshotCache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}
	slog.Info("skill matrix cache: redis connected", slog.String("addr", opts.Addr), slog.Duration("ttl", ttl))
	return &RedisSnapshotCache{rdb: rdb, ttl: ttl}, nil
}

func sessionKey(id string) string { return skillMatrixPrefix + id }

func (c *RedisSnapshotCache) Load(ctx context.Context, sessionID string) (*domain.SkillMatrixSnapshot, error) {
	data, err := c.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap domain.SkillMatrixSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", sessionID, err)
	}
	return &snap, nil
}

func (c *RedisSnapshotCache) Save(ctx context.Context, snap *domain.SkillMatrixSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(snap.SessionID), data, c.ttl)
	pipe.Set(ctx, skillMatrixLatestKey, snap.SessionID, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *RedisSnapshotCache) LatestSession(ctx context.Context) (string, error) {
	id, err := c.rdb.Get(ctx, skillMatrixLatestKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return id, err
}

func (c *RedisSnapshotCache) Close() error {
	return c.rdb.Close()
}
