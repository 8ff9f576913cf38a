package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/psycoagenda/psycoagenda/internal/models"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
)

const statsCacheKey = "psycoagenda:estadisticas"

// statsInvalidator drops the cached snapshot after any agenda mutation.
type statsInvalidator interface {
	Invalidate(ctx context.Context) error
}

type estadisticasRepository interface {
	Snapshot(ctx context.Context) (*models.Estadisticas, error)
}

// EstadisticasService serves the agenda aggregate, cached in Redis for a
// short TTL. The cache is best-effort: a Redis failure degrades to the
// database query, never to an error.
type EstadisticasService struct {
	repo   estadisticasRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewEstadisticasService constructs the statistics service.
func NewEstadisticasService(repo estadisticasRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *EstadisticasService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstadisticasService{repo: repo, redis: rdb, ttl: ttl, logger: logger}
}

// Snapshot returns the current aggregate and whether it came from cache.
func (s *EstadisticasService) Snapshot(ctx context.Context) (*models.Estadisticas, bool, error) {
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			var cached models.Estadisticas
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, true, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
	}

	stats, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudieron calcular las estadísticas")
	}

	if s.redis != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, statsCacheKey, raw, s.ttl).Err(); err != nil {
				s.logger.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, false, nil
}

// Invalidate drops the cached snapshot.
func (s *EstadisticasService) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, statsCacheKey).Err()
}
