package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/validation"
)

const ContextBodyKey = "body"

// Validate binds the request body (JSON or form) to the schema's type and rejects it
// with every violation at once. The bound body is available to handlers through Body.
func Validate(v *validation.Validator, schema validation.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := validation.NewBody(schema)
		if body == nil {
			response.ServerError(c, fmt.Sprintf("No validator registered for %s", schema))
			return
		}

		if err := c.ShouldBind(body); err != nil && !errors.Is(err, io.EOF) {
			response.ValidationError(c, []string{bindMessage(err)})
			return
		}
		if n, ok := body.(validation.Normalizer); ok {
			n.Normalize()
		}
		if errs := v.Check(schema, body); errs != nil {
			response.ValidationError(c, errs)
			return
		}

		c.Set(ContextBodyKey, body)
		c.Next()
	}
}

// Body returns the validated body stored by Validate, or nil when the route has none.
func Body[T any](c *gin.Context) *T {
	v, ok := c.Get(ContextBodyKey)
	if !ok {
		return nil
	}
	body, _ := v.(*T)
	return body
}

func bindMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return fmt.Sprintf("%q is not a valid number", numErr.Num)
	}
	return "Malformed request body"
}
