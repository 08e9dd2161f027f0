package service

import (
	"context"
	"errors"
	"testing"

	"github.com/raflytch/resume-analyzer/internal/domain"
	"github.com/raflytch/resume-analyzer/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultBridge_LoadLastEmpty(t *testing.T) {
	bridge := NewResultBridge(newMemoryStore(), "")

	result, err := bridge.LoadLast(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestResultBridge_LastWriteWins(t *testing.T) {
	store := newMemoryStore()
	bridge := NewResultBridge(store, "analysisResult")
	ctx := context.Background()

	require.NoError(t, bridge.Persist(ctx, mustResult(t, `{"n":1}`)))
	require.NoError(t, bridge.Persist(ctx, mustResult(t, `{"n":2}`)))

	result, err := bridge.LoadLast(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":2}`, string(result.Raw()))
	assert.Len(t, store.values, 1)
}

func TestResultBridge_PersistNil(t *testing.T) {
	bridge := NewResultBridge(newMemoryStore(), "")

	assert.ErrorIs(t, bridge.Persist(context.Background(), nil), domain.ErrNoResult)
}

func TestResultBridge_ResolvePrecedence(t *testing.T) {
	store := newMemoryStore()
	bridge := NewResultBridge(store, "")
	ctx := context.Background()

	result, source, err := bridge.Resolve(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, domain.ResultSourceNone, source)

	stored := mustResult(t, `{"from":"storage"}`)
	require.NoError(t, bridge.Persist(ctx, stored))

	result, source, err = bridge.Resolve(ctx, nil)
	require.NoError(t, err)
	assert.Same(t, stored, result)
	assert.Equal(t, domain.ResultSourceStorage, source)

	direct := mustResult(t, `{"from":"handoff"}`)
	result, source, err = bridge.Resolve(ctx, direct)
	require.NoError(t, err)
	assert.Same(t, direct, result)
	assert.Equal(t, domain.ResultSourceHandoff, source)
}

func TestResultBridge_ResolveStoreError(t *testing.T) {
	bridge := NewResultBridge(failingStore{err: errors.New("disk gone")}, "")

	_, source, err := bridge.Resolve(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, domain.ResultSourceNone, source)
}

func TestResultBridge_SurvivesReload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	before := NewResultBridge(repository.NewResultFileRepository(dir), domain.DefaultResultKey)
	require.NoError(t, before.Persist(ctx, mustResult(t, `{"feedback":{"score":64}}`)))

	after := NewResultBridge(repository.NewResultFileRepository(dir), domain.DefaultResultKey)
	result, source, err := after.Resolve(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultSourceStorage, source)
	assert.JSONEq(t, `{"feedback":{"score":64}}`, string(result.Raw()))
}

type failingStore struct {
	err error
}

func (f failingStore) Save(context.Context, string, *domain.AnalysisResult) error {
	return f.err
}

func (f failingStore) Load(context.Context, string) (*domain.AnalysisResult, error) {
	return nil, f.err
}
