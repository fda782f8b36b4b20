package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/permkit/errors"
	"github.com/kbukum/permkit/observability"
	"github.com/kbukum/permkit/permission"
)

// RequireLevel returns a Gin middleware that lets the request through only
// if the engine authorizes the caller for feature at requiredLevel.
//
// Denials produce 403 with an RFC 7807 body; engine failures keep their
// AppError status (a collaborator outage is 502, never a silent deny).
func RequireLevel[F comparable, C comparable](engine *permission.Engine[F, C], feature F, requiredLevel permission.Level) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		allowed, err := engine.Authorize(ctx, feature, requiredLevel)
		if err != nil {
			observability.SetSpanError(ctx, err)
			writeError(c, err)
			return
		}

		observability.SetSpanAttribute(ctx, observability.AttrFeature, fmt.Sprintf("%v", feature))
		observability.SetSpanAttribute(ctx, observability.AttrRequiredLevel, string(requiredLevel))
		observability.SetSpanAttribute(ctx, observability.AttrDecision, allowed)

		if !allowed {
			abortWithAppError(c, errors.Forbidden("").
				WithDetail("feature", fmt.Sprintf("%v", feature)).
				WithDetail("required_level", string(requiredLevel)))
			return
		}
		c.Next()
	}
}
