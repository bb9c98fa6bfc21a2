package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-doctor-directory/internal/domain/entity"
	domainRepo "go-doctor-directory/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const RedisSessionKeyPrefix = "session:"

type redisSessionRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewRedisSessionRepository(redisClient *redis.Client, ttl time.Duration) domainRepo.SessionRepository {
	return &redisSessionRepository{redisClient: redisClient, ttl: ttl}
}

// Save refreshes the TTL on every write.
func (r *redisSessionRepository) Save(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.redisClient.Set(ctx, RedisSessionKeyPrefix+session.ID.String(), data, r.ttl).Err()
}

func (r *redisSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	data, err := r.redisClient.Get(ctx, RedisSessionKeyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}
