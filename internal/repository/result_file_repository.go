package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/raflytch/resume-analyzer/internal/domain"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

type resultFileRepository struct {
	dir string
	mu  sync.Mutex
}

func NewResultFileRepository(dir string) domain.ResultStore {
	return &resultFileRepository{dir: dir}
}

func (r *resultFileRepository) path(key string) string {
	return filepath.Join(r.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (r *resultFileRepository) Save(_ context.Context, key string, result *domain.AnalysisResult) error {
	if result == nil {
		return domain.ErrNoResult
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".result-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(result.Raw()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write result: %w", err)
	}

	if err := os.Rename(tmpName, r.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace stored result: %w", err)
	}

	return nil
}

func (r *resultFileRepository) Load(_ context.Context, key string) (*domain.AnalysisResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNoResult
		}
		return nil, fmt.Errorf("failed to read stored result: %w", err)
	}
	return domain.NewAnalysisResult(data)
}
