package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (int, bool, error) {
	session, err := lc.Session(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return session.UserID, true, nil
}

func (lc *LoginChecker) Session(ctx context.Context, token string) (*Session, error) {
	cmd := lc.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	session, err := decodeSession(token, cmd.Val())
	if err != nil {
		return nil, err
	}

	if time.Since(session.CreatedAt) > lc.ttl {
		return nil, ErrSessionExpired
	}

	return session, nil
}
