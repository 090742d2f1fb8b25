package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/inventory/internal/auth/domain"
	"github.com/wyfcoding/inventory/pkg/cache"
)

const sessionPrefix = "auth:session:"

type sessionRepository struct {
	cache *cache.RedisCache
}

func NewSessionRepository(c *cache.RedisCache) domain.SessionRepository {
	return &sessionRepository{cache: c}
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	return r.cache.SetJSON(ctx, sessionPrefix+session.Token, session, ttl)
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	if err := r.cache.GetJSON(ctx, sessionPrefix+token, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		// Key absent or expired in Redis.
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	return r.cache.Delete(ctx, sessionPrefix+token)
}
