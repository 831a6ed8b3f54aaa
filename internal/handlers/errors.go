package handlers

import (
	"errors"

	"github.com/dimitrije/cms-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

// writeError answers with the status of a *services.Error, or logs err and
// answers 500 with fallback.
func writeError(c *drift.Context, logger *zap.Logger, err error, fallback string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case services.KindNotFound:
			c.NotFound(svcErr.Message)
			return
		case services.KindInvalid:
			c.BadRequest(svcErr.Message)
			return
		case services.KindConflict:
			_ = c.JSON(svcErr.StatusCode(), map[string]string{
				"code":    svcErr.Code,
				"message": svcErr.Message,
			})
			return
		}
	}

	logger.Error(fallback, zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.InternalServerError(fallback)
}
