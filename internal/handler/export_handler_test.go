package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-meet-api/internal/middleware"
	"github.com/noah-isme/sma-meet-api/internal/models"
	"github.com/noah-isme/sma-meet-api/internal/service"
)

type exportResolverMock struct {
	admin *models.Admin
}

func (m *exportResolverMock) Resolve(ctx context.Context, adminID string) (*models.Admin, error) {
	return m.admin, nil
}

type exportMeetingsMock struct {
	meetings []models.Meeting
}

func (m *exportMeetingsMock) ListUpcomingByAdmin(ctx context.Context, adminID string, from, to time.Time) ([]models.Meeting, error) {
	return m.meetings, nil
}

func TestExportHandlerAgendaRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolver := &exportResolverMock{admin: &models.Admin{ID: "admin-1", Name: "Bu Sari", Timezone: "Asia/Jakarta"}}
	svc := service.NewExportService(resolver, &exportMeetingsMock{}, nil)
	handler := NewExportHandler(svc)

	r := gin.New()
	r.GET("/api/v1/meetings/export", func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
		handler.Agenda(c)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/meetings/export?format=csv", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "agenda-")
	assert.Contains(t, w.Body.String(), "Date")
}

func TestExportHandlerRejectsBadDays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolver := &exportResolverMock{admin: &models.Admin{ID: "admin-1", Timezone: "UTC"}}
	handler := NewExportHandler(service.NewExportService(resolver, &exportMeetingsMock{}, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/meetings/export?days=zero", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.Agenda(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
