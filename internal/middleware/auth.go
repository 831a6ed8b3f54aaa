package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/dimitrije/cms-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

type TokenValidator interface {
	Validate(ctx context.Context, authorization string) error
}

// Auth rejects requests without a bearer token the validator accepts. An
// unreachable validator rejects too.
func Auth(validator TokenValidator) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		if err := validator.Validate(c.Request.Context(), authHeader); err != nil {
			switch {
			case errors.Is(err, services.ErrValidatorUnavailable):
				c.Unauthorized("token validation unavailable")
			case errors.Is(err, services.ErrTokenExpired):
				c.Unauthorized("token expired")
			default:
				c.Unauthorized("invalid token")
			}
			return
		}

		c.Next()
	}
}
