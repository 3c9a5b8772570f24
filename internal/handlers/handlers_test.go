package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/handlers"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/router"
	"github.com/harentsoaR/folio-api/internal/testutil"
	"github.com/harentsoaR/folio-api/internal/utils"
	"github.com/harentsoaR/folio-api/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer runs the real route table over in-memory stores.
type testServer struct {
	engine   *gin.Engine
	users    *testutil.UserStore
	projects *testutil.ProjectStore
	home     *testutil.HomePageStore
	media    *testutil.MediaUploader
	tokens   *utils.TokenManager
}

func newTestServer(t *testing.T, opts handlers.Options) *testServer {
	t.Helper()
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.MinCost
	}
	s := &testServer{
		users:    testutil.NewUserStore(),
		projects: testutil.NewProjectStore(),
		home:     testutil.NewHomePageStore(),
		media:    testutil.NewMediaUploader(),
		tokens:   testutil.Tokens(),
	}
	h := handlers.NewHandler(s.users, s.projects, s.home, s.media, s.tokens, zap.NewNop(), opts)
	s.engine = router.New(h, validation.New(), s.tokens, router.Options{})
	return s
}

func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// account stores a user and returns it with a signed token.
func (s *testServer) account(t *testing.T, email string, role models.Role) (*models.User, string) {
	t.Helper()
	u := testutil.CreateUser(t, s.users, email, role)
	return u, testutil.Token(t, s.tokens, u)
}

// withProfile gives u a stored profile.
func (s *testServer) withProfile(t *testing.T, u *models.User, p models.Profile) {
	t.Helper()
	if _, err := s.users.SetProfile(context.Background(), u.ID, &p, p.IsComplete()); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
}

func api(format string, args ...any) string {
	return router.APIPrefix + fmt.Sprintf(format, args...)
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) testutil.Envelope {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d: %s", w.Code, want, w.Body.String())
	}
	return testutil.Decode(t, w)
}

var pngData = []byte("\x89PNG\r\n\x1a\n")
