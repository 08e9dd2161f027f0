package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/raflytch/resume-analyzer/internal/domain"

	"github.com/redis/go-redis/v9"
)

type resultRedisRepository struct {
	client redis.Cmdable
}

func NewResultRedisRepository(client redis.Cmdable) domain.ResultStore {
	return &resultRedisRepository{client: client}
}

func (r *resultRedisRepository) Save(ctx context.Context, key string, result *domain.AnalysisResult) error {
	if result == nil {
		return domain.ErrNoResult
	}
	if err := r.client.Set(ctx, key, []byte(result.Raw()), 0).Err(); err != nil {
		return fmt.Errorf("failed to write result to redis: %w", err)
	}
	return nil
}

func (r *resultRedisRepository) Load(ctx context.Context, key string) (*domain.AnalysisResult, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoResult
		}
		return nil, fmt.Errorf("failed to read result from redis: %w", err)
	}
	return domain.NewAnalysisResult(data)
}
