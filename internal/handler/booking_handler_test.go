package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-meet-api/internal/middleware"
	"github.com/noah-isme/sma-meet-api/internal/models"
)

func TestBookingHandlerRequiresAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/meetings", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandlerRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/meetings", bytes.NewBufferString(`{"meeting_type":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "guardian-1", Role: models.RoleGuardian})

	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}
