package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/interfaces/http/middleware"
	"token-dashboard.backend/internal/interfaces/http/response"
)

const invalidBody = "Invalid request body"

// fail writes err. Unexpected errors are reported with the endpoint's fallback message.
func fail(c *gin.Context, err error, fallback string) {
	if appErr, ok := domainerrors.As(err); ok && appErr.Code != domainerrors.CodeInternalError {
		response.Error(c, appErr)
		return
	}
	response.Error(c, domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.CodeInternalError, fallback, err))
}

// requireUser returns the session user or writes 401
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Not authenticated"))
		return uuid.Nil, false
	}
	return userID, true
}

// optionalUser returns the session user id, or nil for anonymous requests
func optionalUser(c *gin.Context) *uuid.UUID {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return nil
	}
	return &userID
}
