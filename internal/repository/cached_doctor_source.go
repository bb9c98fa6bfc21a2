package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-doctor-directory/internal/domain/entity"
	domainRepo "go-doctor-directory/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisDoctorsCacheKey holds the last successful fetch as a JSON array.
const RedisDoctorsCacheKey = "doctors:raw"

// cachedDoctorSource serves records from Redis and falls through to the
// wrapped source on a miss. Redis failures never fail a fetch.
type cachedDoctorSource struct {
	inner       domainRepo.DoctorSource
	redisClient *redis.Client
	ttl         time.Duration
	log         *logrus.Logger
}

func NewCachedDoctorSource(inner domainRepo.DoctorSource, redisClient *redis.Client, ttl time.Duration, log *logrus.Logger) domainRepo.DoctorSource {
	return &cachedDoctorSource{
		inner:       inner,
		redisClient: redisClient,
		ttl:         ttl,
		log:         log,
	}
}

func (s *cachedDoctorSource) FetchAll(ctx context.Context) ([]entity.RawDoctor, error) {
	payload, err := s.redisClient.Get(ctx, RedisDoctorsCacheKey).Bytes()
	switch {
	case err == nil:
		raws, decodeErr := DecodeRawDoctors(payload)
		if decodeErr == nil {
			s.log.Debugf("Serving %d doctors from cache", len(raws))
			return raws, nil
		}
		s.log.Warnf("Failed to decode cached doctors: %+v", decodeErr)
	case !errors.Is(err, redis.Nil):
		s.log.Warnf("Failed to read doctors cache: %+v", err)
	}

	raws, err := s.inner.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(raws)
	if err != nil {
		s.log.Warnf("Failed to encode doctors for cache: %+v", err)
		return raws, nil
	}
	if err := s.redisClient.Set(ctx, RedisDoctorsCacheKey, encoded, s.ttl).Err(); err != nil {
		s.log.Warnf("Failed to write doctors cache: %+v", err)
	}

	return raws, nil
}
