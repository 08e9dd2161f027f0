package service

import (
	"context"
	"errors"

	"github.com/raflytch/resume-analyzer/internal/domain"
)

// resultBridge hands the last successful result from the intake view to the
// results view. A single slot under one key, last write wins.
type resultBridge struct {
	store domain.ResultStore
	key   string
}

func NewResultBridge(store domain.ResultStore, key string) domain.ResultBridge {
	if key == "" {
		key = domain.DefaultResultKey
	}
	return &resultBridge{
		store: store,
		key:   key,
	}
}

func (b *resultBridge) Persist(ctx context.Context, result *domain.AnalysisResult) error {
	if result == nil {
		return domain.ErrNoResult
	}
	return b.store.Save(ctx, b.key, result)
}

func (b *resultBridge) LoadLast(ctx context.Context) (*domain.AnalysisResult, error) {
	result, err := b.store.Load(ctx, b.key)
	if err != nil {
		if errors.Is(err, domain.ErrNoResult) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (b *resultBridge) Resolve(ctx context.Context, direct *domain.AnalysisResult) (*domain.AnalysisResult, domain.ResultSource, error) {
	if direct != nil {
		return direct, domain.ResultSourceHandoff, nil
	}

	stored, err := b.LoadLast(ctx)
	if err != nil {
		return nil, domain.ResultSourceNone, err
	}
	if stored == nil {
		return nil, domain.ResultSourceNone, nil
	}
	return stored, domain.ResultSourceStorage, nil
}
