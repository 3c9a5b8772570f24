package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidFile is returned for uploads with a disallowed content type or size.
var ErrInvalidFile = errors.New("invalid file")

// MediaKind selects which content types an upload may have.
type MediaKind int

const (
	// KindImage accepts raster images only.
	KindImage MediaKind = iota
	// KindDocument accepts images and PDF, used for certificates.
	KindDocument
)

var imageTypes = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/webp": -1, // stored as is, no decoder
}

func (k MediaKind) allows(contentType string) bool {
	if _, ok := imageTypes[contentType]; ok {
		return true
	}
	return k == KindDocument && contentType == "application/pdf"
}

// ObjectBackend stores bytes under a key and returns the public URL of the object.
type ObjectBackend interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

// MediaService validates uploaded files, downscales oversized images and hands them to a backend.
type MediaService struct {
	backend  ObjectBackend
	maxSize  int64
	maxWidth int
	log      *zap.Logger
}

func NewMediaService(backend ObjectBackend, maxSize int64, maxWidth int, log *zap.Logger) *MediaService {
	return &MediaService{backend: backend, maxSize: maxSize, maxWidth: maxWidth, log: log}
}

// Upload stores fh under folder and returns its URL.
func (s *MediaService) Upload(ctx context.Context, folder string, kind MediaKind, fh *multipart.FileHeader) (string, error) {
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return "", fmt.Errorf("%w: %s exceeds the %d byte limit", ErrInvalidFile, fh.Filename, s.maxSize)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}

	contentType := http.DetectContentType(data)
	if !kind.allows(contentType) {
		return "", fmt.Errorf("%w: %s has unsupported type %s", ErrInvalidFile, fh.Filename, contentType)
	}

	if format, ok := imageTypes[contentType]; ok && format >= 0 {
		data, err = s.downscale(data, format)
		if err != nil {
			return "", fmt.Errorf("%w: %s is not a readable image", ErrInvalidFile, fh.Filename)
		}
	}

	key := ObjectKey(folder, fh.Filename)
	url, err := s.backend.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return url, nil
}

// UploadAll uploads every file in order and stops at the first failure.
func (s *MediaService) UploadAll(ctx context.Context, folder string, kind MediaKind, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := s.Upload(ctx, folder, kind, fh)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *MediaService) downscale(data []byte, format imaging.Format) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if s.maxWidth <= 0 || cfg.Width <= s.maxWidth {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	resized := imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, err
	}
	s.log.Debug("downscaled image",
		zap.Int("from_width", cfg.Width),
		zap.Int("to_width", s.maxWidth),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// ObjectKey builds "<folder>/<uuid>_<filename>" with the filename reduced to URL safe characters.
func ObjectKey(folder, filename string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, path.Base(filename))
	return strings.Trim(folder, "/") + "/" + uuid.NewString() + "_" + name
}
