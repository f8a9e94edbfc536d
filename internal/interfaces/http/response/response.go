package response

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/pkg/logger"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Anything that is not an AppError is logged and
// reported as a generic internal error.
func Error(c *gin.Context, err error) {
	appErr, ok := domainerrors.As(err)
	if !ok {
		appErr = domainerrors.InternalError(err)
	}

	if appErr.Status >= 500 {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("code", appErr.Code),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}
