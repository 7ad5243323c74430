package enforcement

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "answerwire/pkg/domain"
)

// RedisStore persists per-tenant enforcement overrides in Redis so all
// nodes see an override the moment an operator sets it.
type RedisStore struct {
	client *redis.Client
}

// NewRedis wraps a connected go-redis client.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(tenantID id.TenantID) string {
	return "answerwire:enforcement:" + tenantID.String()
}

func (s *RedisStore) TenantMode(ctx context.Context, tenantID id.TenantID) (Mode, bool, error) {
	raw, err := s.client.Get(ctx, key(tenantID)).Result()
	if errors.Is(err, redis.Nil) {
		return ModeUnset, false, nil
	}
	if err != nil {
		return ModeUnset, false, fmt.Errorf("get enforcement override: %w", err)
	}
	mode, err := Parse(raw)
	if err != nil {
		// A corrupt value behaves like no override rather than poisoning
		// every call for the tenant.
		return ModeUnset, false, nil
	}
	return mode, true, nil
}

func (s *RedisStore) SetTenantMode(ctx context.Context, tenantID id.TenantID, mode Mode) error {
	if err := s.client.Set(ctx, key(tenantID), string(mode), 0).Err(); err != nil {
		return fmt.Errorf("set enforcement override: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearTenantMode(ctx context.Context, tenantID id.TenantID) error {
	if err := s.client.Del(ctx, key(tenantID)).Err(); err != nil {
		return fmt.Errorf("clear enforcement override: %w", err)
	}
	return nil
}
