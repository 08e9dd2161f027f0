package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/raflytch/resume-analyzer/internal/domain"
)

const (
	uploadPath        = "/upload-resume/"
	uploadFieldName   = "file"
	defaultMaxBody    = 5 * 1024 * 1024
	errorSnippetBytes = 256
)

type SubmissionErrorKind string

const (
	SubmissionErrorTransport SubmissionErrorKind = "transport"
	SubmissionErrorStatus    SubmissionErrorKind = "status"
	SubmissionErrorMalformed SubmissionErrorKind = "malformed"
)

type SubmissionError struct {
	Kind       SubmissionErrorKind
	Message    string
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

type SubmitterConfig struct {
	BaseURL          string
	Timeout          time.Duration
	MaxResponseBytes int64
	HTTPClient       *http.Client
}

type httpSubmitter struct {
	client           *http.Client
	endpoint         string
	timeout          time.Duration
	maxResponseBytes int64
}

func NewSubmitter(cfg SubmitterConfig) domain.Submitter {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	maxBody := cfg.MaxResponseBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}

	return &httpSubmitter{
		client:           client,
		endpoint:         strings.TrimRight(cfg.BaseURL, "/") + uploadPath,
		timeout:          cfg.Timeout,
		maxResponseBytes: maxBody,
	}
}

func (s *httpSubmitter) Submit(ctx context.Context, file *domain.SelectedFile) (*domain.AnalysisResult, error) {
	if file == nil || file.Open == nil {
		return nil, domain.ErrNothingStaged
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	body, contentType, err := buildUploadBody(file)
	if err != nil {
		return nil, &SubmissionError{Kind: SubmissionErrorTransport, Message: "failed to read resume file", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return nil, &SubmissionError{Kind: SubmissionErrorTransport, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &SubmissionError{Kind: SubmissionErrorTransport, Message: "analysis endpoint unreachable", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxResponseBytes+1))
	if err != nil {
		return nil, &SubmissionError{Kind: SubmissionErrorTransport, Message: "failed to read analysis response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SubmissionError{
			Kind:       SubmissionErrorStatus,
			Message:    fmt.Sprintf("analysis endpoint returned %d: %s", resp.StatusCode, snippet(data)),
			StatusCode: resp.StatusCode,
		}
	}

	if int64(len(data)) > s.maxResponseBytes {
		return nil, &SubmissionError{
			Kind:       SubmissionErrorMalformed,
			Message:    fmt.Sprintf("analysis response exceeds %d bytes", s.maxResponseBytes),
			StatusCode: resp.StatusCode,
		}
	}

	result, err := domain.NewAnalysisResult(data)
	if err != nil {
		return nil, &SubmissionError{
			Kind:       SubmissionErrorMalformed,
			Message:    "analysis response is not valid json",
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	return result, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func buildUploadBody(file *domain.SelectedFile) (*bytes.Buffer, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadFieldName, quoteEscaper.Replace(file.Name)))
	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	header.Set("Content-Type", mediaType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

func snippet(data []byte) string {
	text := strings.TrimSpace(string(data))
	if len(text) > errorSnippetBytes {
		text = text[:errorSnippetBytes] + "..."
	}
	if text == "" {
		return "empty body"
	}
	return text
}

func IsSubmissionError(err error, kind SubmissionErrorKind) bool {
	var subErr *SubmissionError
	return errors.As(err, &subErr) && subErr.Kind == kind
}
