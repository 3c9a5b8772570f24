package testutil

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/harentsoaR/folio-api/internal/services"
)

// MediaUploader records uploads and returns predictable URLs.
// Files whose name starts with "bad" are rejected as invalid.
type MediaUploader struct {
	mu      sync.Mutex
	Uploads []string
	// Err, when set, is returned by every upload.
	Err error
}

func NewMediaUploader() *MediaUploader {
	return &MediaUploader{}
}

func (m *MediaUploader) Upload(_ context.Context, folder string, _ services.MediaKind, fh *multipart.FileHeader) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if strings.HasPrefix(fh.Filename, "bad") {
		return "", fmt.Errorf("%w: %s has unsupported type", services.ErrInvalidFile, fh.Filename)
	}
	url := "https://media.test/" + folder + "/" + fh.Filename
	m.mu.Lock()
	m.Uploads = append(m.Uploads, url)
	m.mu.Unlock()
	return url, nil
}

func (m *MediaUploader) UploadAll(ctx context.Context, folder string, kind services.MediaKind, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := m.Upload(ctx, folder, kind, fh)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// ErrStorageDown simulates an object storage outage.
var ErrStorageDown = errors.New("storage unavailable")
