package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"token-dashboard.backend/internal/interfaces/http/middleware"
	"token-dashboard.backend/pkg/jwt"
)

func newTestRouter(userID *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != nil {
		id := *userID
		r.Use(func(c *gin.Context) {
			c.Set(middleware.SessionKey, &middleware.SessionIdentity{
				UserID: id,
				Email:  "user@example.com",
				Claims: &jwt.Claims{UserID: id},
			})
			c.Next()
		})
	}
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
