package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body every endpoint answers with.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// ValidationError reports every schema violation at once.
func ValidationError(c *gin.Context, errs []string) {
	fail(c, http.StatusBadRequest, "Validation failed", errs)
}

func ClientError(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, message, nil)
}

func Unauthenticated(c *gin.Context, message string) {
	fail(c, http.StatusUnauthorized, message, nil)
}

func Forbidden(c *gin.Context, message string) {
	fail(c, http.StatusForbidden, message, nil)
}

// NotFound answers 404 with "<resource> not found".
func NotFound(c *gin.Context, resource string) {
	fail(c, http.StatusNotFound, fmt.Sprintf("%s not found", resource), nil)
}

func TooManyRequests(c *gin.Context, message string) {
	fail(c, http.StatusTooManyRequests, message, nil)
}

func ServerError(c *gin.Context, message string) {
	fail(c, http.StatusInternalServerError, message, nil)
}

func fail(c *gin.Context, status int, message string, errs []string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message, Errors: errs})
}
