package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/permkit/auth"
	"github.com/kbukum/permkit/errors"
)

// AuthConfig configures the Bearer token authentication middleware.
type AuthConfig struct {
	// Validator validates a token string and returns the parsed claims.
	// Wire auth.Service.ValidatorFunc() here.
	Validator func(token string) (*auth.AccessClaims, error)
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
	// Optional lets requests without an Authorization header through as
	// anonymous callers. Invalid tokens are still rejected.
	Optional bool
}

// Auth returns a Gin middleware that validates Bearer tokens and stores
// the parsed claims in the request context for the resolvers to read.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if cfg.Optional {
				c.Next()
				return
			}
			abortWithAppError(c, errors.Unauthorized("Authorization header required."))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithAppError(c, errors.Unauthorized("Invalid authorization header format."))
			return
		}

		claims, err := cfg.Validator(parts[1])
		if err != nil {
			abortWithAppError(c, errors.InvalidToken())
			return
		}

		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// abortWithAppError writes an AppError response and stops the chain.
func abortWithAppError(c *gin.Context, appErr *errors.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// writeError maps any error to a response: AppErrors keep their status and
// body; everything else is an opaque 500.
func writeError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		abortWithAppError(c, appErr)
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, errors.Internal(err).ToResponse())
}
