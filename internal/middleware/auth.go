package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/store"
	"github.com/harentsoaR/folio-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	ContextUserIDKey   = "userID"
	ContextRoleKey     = "userRole"
	ContextIdentityKey = "identity"
)

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	ID   primitive.ObjectID
	Role models.Role
}

type TokenValidator interface {
	ValidateJWT(tokenStr string) (*utils.Claims, error)
}

// UserResolver loads the account a token subject refers to.
type UserResolver interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Authenticate verifies the bearer token and resolves its subject to a live, unblocked account.
func Authenticate(tokens TokenValidator, users UserResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthenticated(c, "Authorization header required")
			return
		}

		claims, err := tokens.ValidateJWT(tokenString)
		if err != nil {
			response.Unauthenticated(c, "Invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			response.Unauthenticated(c, "Invalid or expired token")
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if errors.Is(err, store.ErrNotFound) {
			response.Unauthenticated(c, "User no longer exists")
			return
		}
		if err != nil {
			log.Error("resolve token subject", zap.String("user_id", claims.Subject), zap.Error(err))
			response.ServerError(c, "Server error during authentication")
			return
		}
		if user.IsBlocked {
			response.Forbidden(c, "Your account has been blocked")
			return
		}

		// role comes from the stored account, not the token, so demotions apply immediately
		c.Set(ContextUserIDKey, user.ID.Hex())
		c.Set(ContextRoleKey, user.Role)
		c.Set(ContextIdentityKey, Identity{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentIdentity returns the identity set by Authenticate.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
