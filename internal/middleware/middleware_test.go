package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/store"
	"github.com/harentsoaR/folio-api/internal/utils"
	"github.com/harentsoaR/folio-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type userMap map[primitive.ObjectID]*models.User

func (m userMap) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

func TestAuthenticate(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	active := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	blocked := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser, IsBlocked: true}
	users := userMap{active.ID: active, blocked.ID: blocked}

	r := gin.New()
	r.GET("/me", Authenticate(tokens, users, zap.NewNop()), func(c *gin.Context) {
		id, _ := CurrentIdentity(c)
		c.String(http.StatusOK, id.ID.Hex())
	})

	token := func(id primitive.ObjectID) string {
		tok, err := tokens.GenerateJWT(id.Hex(), string(models.RoleUser))
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "unknown subject", header: "Bearer " + token(primitive.NewObjectID()), want: http.StatusUnauthorized},
		{name: "blocked account", header: "Bearer " + token(blocked.ID), want: http.StatusForbidden},
		{name: "active account", header: "Bearer " + token(active.ID), want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusOK {
				if w.Body.String() != active.ID.Hex() {
					t.Fatalf("identity = %q", w.Body.String())
				}
				return
			}
			if env := decode(t, w); env.Success || env.Message == "" {
				t.Fatalf("unexpected envelope %+v", env)
			}
		})
	}
}

func TestAllowed(t *testing.T) {
	admin := Identity{Role: models.RoleAdmin}
	user := Identity{Role: models.RoleUser}
	if !Allowed(admin, models.RoleAdmin) {
		t.Fatal("admin should be allowed")
	}
	if Allowed(user, models.RoleAdmin) {
		t.Fatal("user must not pass an admin-only gate")
	}
	if Allowed(admin) {
		t.Fatal("empty allow-list admits nobody")
	}
}

func withIdentity(id Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextIdentityKey, id)
		c.Next()
	}
}

func TestRequireRoles(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	tests := []struct {
		name string
		pre  []gin.HandlerFunc
		want int
	}{
		{name: "no identity", want: http.StatusUnauthorized},
		{name: "user", pre: []gin.HandlerFunc{withIdentity(Identity{Role: models.RoleUser})}, want: http.StatusForbidden},
		{name: "admin", pre: []gin.HandlerFunc{withIdentity(Identity{Role: models.RoleAdmin})}, want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			handlers := append(tt.pre, RequireRoles(models.RoleAdmin), ok)
			r.GET("/x", handlers...)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequireSelfOrRoles(t *testing.T) {
	self := primitive.NewObjectID()
	other := primitive.NewObjectID()
	tests := []struct {
		name string
		id   Identity
		path string
		want int
	}{
		{name: "self", id: Identity{ID: self, Role: models.RoleUser}, path: "/u/" + self.Hex(), want: http.StatusNoContent},
		{name: "self in upper case hex", id: Identity{ID: self, Role: models.RoleUser}, path: "/u/" + strings.ToUpper(self.Hex()), want: http.StatusNoContent},
		{name: "malformed id", id: Identity{ID: self, Role: models.RoleUser}, path: "/u/not-an-id", want: http.StatusForbidden},
		{name: "admin on malformed id", id: Identity{ID: self, Role: models.RoleAdmin}, path: "/u/not-an-id", want: http.StatusNoContent},
		{name: "other user", id: Identity{ID: self, Role: models.RoleUser}, path: "/u/" + other.Hex(), want: http.StatusForbidden},
		{name: "admin on other", id: Identity{ID: self, Role: models.RoleAdmin}, path: "/u/" + other.Hex(), want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/u/:userID", withIdentity(tt.id), RequireSelfOrRoles("userID", models.RoleAdmin), func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	r := gin.New()
	r.POST("/register", Validate(validation.New(), validation.Register), func(c *gin.Context) {
		body := Body[validation.RegisterRequest](c)
		c.String(http.StatusOK, body.Email)
	})

	post := func(contentType, payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(payload))
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post("application/json", `{"fullName":"Ada","email":" ADA@example.com ","password":"Str0ng!pw"}`)
	if w.Code != http.StatusOK || w.Body.String() != "ada@example.com" {
		t.Fatalf("valid body: %d %s", w.Code, w.Body.String())
	}

	w = post("application/json", "")
	env := decode(t, w)
	if w.Code != http.StatusBadRequest || env.Message != "Validation failed" || len(env.Errors) != 3 {
		t.Fatalf("empty body: %d %+v", w.Code, env)
	}

	w = post("application/json", `{"fullName":`)
	if env := decode(t, w); w.Code != http.StatusBadRequest || len(env.Errors) != 1 {
		t.Fatalf("malformed body: %d %+v", w.Code, env)
	}

	w = post("application/x-www-form-urlencoded", "fullName=Ada&email=ada%40example.com&password=weak")
	env = decode(t, w)
	if w.Code != http.StatusBadRequest || len(env.Errors) != 1 || env.Errors[0] != validation.PasswordPolicy {
		t.Fatalf("form body: %d %+v", w.Code, env)
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	r := gin.New()
	r.PUT("/p", Validate(validation.New(), validation.UpdateProfile), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodPut, "/p", strings.NewReader(`{"yearsOfExperience":"ten"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	env := decode(t, w)
	if w.Code != http.StatusBadRequest || len(env.Errors) != 1 || !strings.HasPrefix(env.Errors[0], "yearsOfExperience") {
		t.Fatalf("type mismatch: %d %+v", w.Code, env)
	}
}

func TestRateLimit(t *testing.T) {
	l := NewIPRateLimiter(2, zap.NewNop())
	r := gin.New()
	r.POST("/login", l.RateLimit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	l.sweep(time.Now().Add(time.Minute))
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("after sweep: %d", w.Code)
	}
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.NewNop()), Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
	if env := decode(t, w); env.Success || env.Message != "Internal server error" {
		t.Fatalf("envelope = %+v", env)
	}
}
