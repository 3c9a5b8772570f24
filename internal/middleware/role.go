package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const forbiddenMessage = "Access denied. Insufficient permissions."

// Allowed reports whether the identity's role is in the allow-list.
func Allowed(id Identity, allowed ...models.Role) bool {
	return slices.Contains(allowed, id.Role)
}

// RequireRoles lets the request through only for the listed roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			response.Unauthenticated(c, "Authentication required")
			return
		}
		if !Allowed(id, roles...) {
			response.Forbidden(c, forbiddenMessage)
			return
		}
		c.Next()
	}
}

// RequireSelfOrRoles lets the request through when the path parameter names the caller,
// or when the caller holds one of the listed roles.
func RequireSelfOrRoles(param string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			response.Unauthenticated(c, "Authentication required")
			return
		}
		target, err := primitive.ObjectIDFromHex(c.Param(param))
		if (err != nil || target != id.ID) && !Allowed(id, roles...) {
			response.Forbidden(c, forbiddenMessage)
			return
		}
		c.Next()
	}
}
