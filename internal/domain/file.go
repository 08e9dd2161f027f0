package domain

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

const defaultMediaType = "application/octet-stream"

// SelectedFile is a candidate document picked by the user. Open may be called
// more than once; each call returns a fresh reader positioned at the start.
type SelectedFile struct {
	Name      string
	Size      int64
	MediaType string
	Open      func() (io.ReadCloser, error)
}

func (f *SelectedFile) Staged() *StagedFile {
	if f == nil {
		return nil
	}
	return &StagedFile{
		Name:      f.Name,
		Size:      f.Size,
		MediaType: f.MediaType,
	}
}

func NewSelectedFileFromHeader(header *multipart.FileHeader) *SelectedFile {
	if header == nil {
		return nil
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" || mediaType == defaultMediaType {
		if src, err := header.Open(); err == nil {
			if detected, err := mimetype.DetectReader(src); err == nil {
				mediaType = detected.String()
			}
			src.Close()
		}
	}
	if mediaType == "" {
		mediaType = defaultMediaType
	}

	return &SelectedFile{
		Name:      filepath.Base(header.Filename),
		Size:      header.Size,
		MediaType: mediaType,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

func NewSelectedFileFromPath(path string) (*SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mediaType := defaultMediaType
	if detected, err := mimetype.DetectFile(path); err == nil {
		mediaType = detected.String()
	}

	return &SelectedFile{
		Name:      filepath.Base(path),
		Size:      info.Size(),
		MediaType: mediaType,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func NewSelectedFileFromBytes(name, mediaType string, data []byte) *SelectedFile {
	if mediaType == "" {
		mediaType = mimetype.Detect(data).String()
	}
	return &SelectedFile{
		Name:      name,
		Size:      int64(len(data)),
		MediaType: mediaType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
