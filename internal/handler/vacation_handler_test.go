package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-meet-api/internal/middleware"
	"github.com/noah-isme/sma-meet-api/internal/models"
	"github.com/noah-isme/sma-meet-api/internal/service"
)

type vacationStoreMock struct {
	active  []models.SystemVacation
	created *models.SystemVacation
}

func (m *vacationStoreMock) ListActive(ctx context.Context) ([]models.SystemVacation, error) {
	return m.active, nil
}

func (m *vacationStoreMock) Create(ctx context.Context, vacation *models.SystemVacation) error {
	vacation.ID = "vac-new"
	m.created = vacation
	return nil
}

func (m *vacationStoreMock) Deactivate(ctx context.Context, id string) error {
	return nil
}

func TestVacationHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &vacationStoreMock{}
	handler := NewVacationHandler(service.NewVacationService(store, nil, nil, nil))

	body := `{"name":"Semester break","starts_at":"2026-12-20T00:00:00Z","ends_at":"2027-01-04T00:00:00Z"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/vacations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "super-1", Role: models.RoleSuperAdmin})

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.created)
	assert.Equal(t, "Semester break", store.created.Name)
	assert.Equal(t, "super-1", store.created.CreatedBy)
}

func TestVacationHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &vacationStoreMock{active: []models.SystemVacation{{ID: "vac-1", Name: "Semester break"}}}
	handler := NewVacationHandler(service.NewVacationService(store, nil, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/vacations", nil)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []models.SystemVacation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "vac-1", envelope.Data[0].ID)
}
