package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/utils"
)

const TestSecret = "test-secret"

// Tokens returns a token manager signing with TestSecret.
func Tokens() *utils.TokenManager {
	return utils.NewTokenManager(TestSecret, time.Hour)
}

// Token signs a token for u.
func Token(t *testing.T, tokens *utils.TokenManager, u *models.User) string {
	t.Helper()
	tok, err := tokens.GenerateJWT(u.ID.Hex(), string(u.Role))
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return tok
}

// CreateUser stores a user with the given role and returns it.
func CreateUser(t *testing.T, users *UserStore, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{FullName: "Test User", Email: email, Role: role}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// JSONRequest builds a request with a JSON body and an optional bearer token.
func JSONRequest(t *testing.T, method, path string, body any, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// File is one multipart file part.
type File struct {
	Field string
	Name  string
	Data  []byte
}

// MultipartRequest builds a multipart/form-data request.
func MultipartRequest(t *testing.T, method, path string, fields map[string]string, files []File, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// Envelope is a decoded response whose data is kept raw for typed decoding.
type Envelope struct {
	response.Envelope
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode reads the envelope of a recorded response.
func Decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

// DecodeData unmarshals the envelope data into v.
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := Decode(t, w)
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}
