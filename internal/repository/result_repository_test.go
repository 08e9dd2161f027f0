package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/raflytch/resume-analyzer/internal/database"
	"github.com/raflytch/resume-analyzer/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResult(t *testing.T, doc string) *domain.AnalysisResult {
	t.Helper()
	result, err := domain.NewAnalysisResult([]byte(doc))
	require.NoError(t, err)
	return result
}

// exerciseStore runs the single-slot, last-write-wins contract against a backend.
func exerciseStore(t *testing.T, store domain.ResultStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx, domain.DefaultResultKey)
	require.ErrorIs(t, err, domain.ErrNoResult)

	first := mustResult(t, `{"feedback":{"score":40}}`)
	require.NoError(t, store.Save(ctx, domain.DefaultResultKey, first))

	second := mustResult(t, `{"feedback":{"score":82}}`)
	require.NoError(t, store.Save(ctx, domain.DefaultResultKey, second))

	loaded, err := store.Load(ctx, domain.DefaultResultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"feedback":{"score":82}}`, string(loaded.Raw()))

	assert.ErrorIs(t, store.Save(ctx, domain.DefaultResultKey, nil), domain.ErrNoResult)
}

func TestResultFileRepository(t *testing.T) {
	exerciseStore(t, NewResultFileRepository(t.TempDir()))
}

func TestResultFileRepository_SurvivesNewInstance(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	ctx := context.Background()

	require.NoError(t, NewResultFileRepository(dir).Save(ctx, "analysisResult", mustResult(t, `{"a":1}`)))

	loaded, err := NewResultFileRepository(dir).Load(ctx, "analysisResult")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(loaded.Raw()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "analysisResult.json", entries[0].Name())
}

func TestResultFileRepository_SanitizesKey(t *testing.T) {
	repo := NewResultFileRepository(t.TempDir()).(*resultFileRepository)

	assert.Equal(t, filepath.Join(repo.dir, ".._.._etc_passwd.json"), repo.path("../../etc/passwd"))
}

func TestResultFileRepository_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "analysisResult.json"), []byte("{broken"), 0644))

	_, err := NewResultFileRepository(dir).Load(context.Background(), "analysisResult")
	assert.ErrorIs(t, err, domain.ErrMalformedResult)
}

func TestResultRedisRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	exerciseStore(t, NewResultRedisRepository(client))

	ttl := mr.TTL(domain.DefaultResultKey)
	assert.Zero(t, ttl, "result slot must not expire")
}

func TestResultRedisRepository_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	err = NewResultRedisRepository(client).Save(context.Background(), "k", mustResult(t, `{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write result to redis")
}

func TestResultPostgresRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgresConnection(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewResultPostgresRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	_, err = db.Exec(`DELETE FROM analysis_results WHERE key = $1`, domain.DefaultResultKey)
	require.NoError(t, err)

	exerciseStore(t, repo)
}

func TestResultPostgresRepository_Unavailable(t *testing.T) {
	db, err := sql.Open("postgres", "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var repo domain.ResultStore = NewResultPostgresRepository(db)
	assert.IsType(t, &resultPostgresRepository{}, repo)

	err = NewResultPostgresRepository(db).EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create analysis_results table")

	_, err = repo.Load(context.Background(), domain.DefaultResultKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoResult)
}
