package resetstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "medlink:reset:token:"
	resetKeyPrefix = "medlink:reset:record:"
)

// RedisStore keeps tokens as JSON strings expiring with the token itself.
type RedisStore struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) SaveToken(ctx context.Context, token string, t Token) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	ttl := t.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, tokenKeyPrefix+token, payload, ttl).Err()
}

func (s *RedisStore) TakeToken(ctx context.Context, token string) (*Token, error) {
	raw, err := s.client.GetDel(ctx, tokenKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("take reset token: %w", err)
	}
	var t Token
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode reset token: %w", err)
	}
	return &t, nil
}

func (s *RedisStore) SaveReset(ctx context.Context, id string, r Reset) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, resetKeyPrefix+id, payload, resetRecordTTL).Err()
}
