package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

const DefaultResultKey = "analysisResult"

var (
	ErrNoResult        = errors.New("no analysis result available")
	ErrMalformedResult = errors.New("analysis result is not a valid json document")
)

type ResultSource string

const (
	ResultSourceHandoff ResultSource = "handoff"
	ResultSourceStorage ResultSource = "storage"
	ResultSourceNone    ResultSource = "none"
)

// AnalysisResult holds the document returned by the analysis endpoint exactly
// as received. Field extraction and defaults live in the presenter.
type AnalysisResult struct {
	raw json.RawMessage
}

func NewAnalysisResult(data []byte) (*AnalysisResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, ErrMalformedResult
	}

	raw := make(json.RawMessage, len(trimmed))
	copy(raw, trimmed)

	return &AnalysisResult{raw: raw}, nil
}

func (r *AnalysisResult) Raw() json.RawMessage {
	if r == nil {
		return nil
	}
	return r.raw
}

func (r *AnalysisResult) MarshalJSON() ([]byte, error) {
	if r == nil || len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	parsed, err := NewAnalysisResult(data)
	if err != nil {
		return err
	}
	r.raw = parsed.raw
	return nil
}

type ResultStore interface {
	Save(ctx context.Context, key string, result *AnalysisResult) error
	Load(ctx context.Context, key string) (*AnalysisResult, error)
}

type ResultBridge interface {
	Persist(ctx context.Context, result *AnalysisResult) error
	LoadLast(ctx context.Context) (*AnalysisResult, error)
	Resolve(ctx context.Context, direct *AnalysisResult) (*AnalysisResult, ResultSource, error)
}

type Submitter interface {
	Submit(ctx context.Context, file *SelectedFile) (*AnalysisResult, error)
}
