package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/service"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
	"github.com/noah-isme/sma-meet-api/pkg/response"
)

// VacationHandler exposes organization-wide blackout management.
type VacationHandler struct {
	vacations *service.VacationService
}

func NewVacationHandler(vacations *service.VacationService) *VacationHandler {
	return &VacationHandler{vacations: vacations}
}

// List godoc
// @Summary List active system vacations
// @Tags Vacations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /vacations [get]
func (h *VacationHandler) List(c *gin.Context) {
	vacations, err := h.vacations.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vacations, nil)
}

// Create godoc
// @Summary Declare a system vacation
// @Tags Vacations
// @Accept json
// @Produce json
// @Param payload body dto.CreateVacationRequest true "Vacation payload"
// @Success 201 {object} response.Envelope
// @Router /vacations [post]
// @Security BearerAuth
func (h *VacationHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateVacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	vacation, err := h.vacations.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, vacation)
}

// Delete godoc
// @Summary Remove a system vacation
// @Tags Vacations
// @Param id path string true "Vacation ID"
// @Success 204
// @Router /vacations/{id} [delete]
// @Security BearerAuth
func (h *VacationHandler) Delete(c *gin.Context) {
	if err := h.vacations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
