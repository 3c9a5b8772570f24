package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type memBackend struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemBackend() *memBackend {
	return &memBackend{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *memBackend) Put(_ context.Context, key, contentType string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	b.objects[key] = data
	b.types[key] = contentType
	return "https://media.test/" + key, nil
}

// fileHeader round-trips data through a multipart form so the header is backed by real content.
func fileHeader(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestUploadStoresImage(t *testing.T) {
	backend := newMemBackend()
	svc := NewMediaService(backend, 1<<20, 100, zap.NewNop())

	url, err := svc.Upload(context.Background(), "profiles", KindImage, fileHeader(t, "me photo.png", pngBytes(t, 50, 20)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://media.test/profiles/") || !strings.HasSuffix(url, "_me_photo.png") {
		t.Fatalf("unexpected url %q", url)
	}
	if len(backend.objects) != 1 {
		t.Fatalf("expected one object, got %d", len(backend.objects))
	}
	for key, ct := range backend.types {
		if ct != "image/png" {
			t.Fatalf("%s stored as %s", key, ct)
		}
	}
}

func TestUploadDownscalesWideImages(t *testing.T) {
	backend := newMemBackend()
	svc := NewMediaService(backend, 1<<20, 100, zap.NewNop())

	if _, err := svc.Upload(context.Background(), "carousel", KindImage, fileHeader(t, "wide.png", pngBytes(t, 400, 40))); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	for _, data := range backend.objects {
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("stored object is not a png: %v", err)
		}
		if cfg.Width != 100 || cfg.Height != 10 {
			t.Fatalf("got %dx%d, want 100x10", cfg.Width, cfg.Height)
		}
	}
}

func TestUploadRejectsInvalidFiles(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	tests := []struct {
		name string
		kind MediaKind
		file string
		data []byte
	}{
		{name: "text as image", kind: KindImage, file: "notes.txt", data: []byte("hello world")},
		{name: "pdf as image", kind: KindImage, file: "cv.pdf", data: pdf},
		{name: "too large", kind: KindImage, file: "big.png", data: bytes.Repeat([]byte{0}, 2048)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMediaService(newMemBackend(), 1024, 0, zap.NewNop())
			_, err := svc.Upload(context.Background(), "x", tt.kind, fileHeader(t, tt.file, tt.data))
			if !errors.Is(err, ErrInvalidFile) {
				t.Fatalf("expected ErrInvalidFile, got %v", err)
			}
		})
	}
}

func TestUploadAllAcceptsCertificates(t *testing.T) {
	backend := newMemBackend()
	svc := NewMediaService(backend, 1<<20, 0, zap.NewNop())
	files := []*multipart.FileHeader{
		fileHeader(t, "cert.pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")),
		fileHeader(t, "cert.png", pngBytes(t, 10, 10)),
	}
	urls, err := svc.UploadAll(context.Background(), "certificates", KindDocument, files)
	if err != nil {
		t.Fatalf("UploadAll: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("urls = %v", urls)
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("/profiles/", "../../etc/pass wd.png")
	if !strings.HasPrefix(key, "profiles/") || !strings.HasSuffix(key, "_pass_wd.png") {
		t.Fatalf("ObjectKey = %q", key)
	}
}
