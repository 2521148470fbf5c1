package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/service"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
	"github.com/noah-isme/sma-meet-api/pkg/response"
)

// TimeOffHandler exposes one-off unavailable period management for the
// authenticated admin.
type TimeOffHandler struct {
	timeOff *service.TimeOffService
}

func NewTimeOffHandler(timeOff *service.TimeOffService) *TimeOffHandler {
	return &TimeOffHandler{timeOff: timeOff}
}

// List godoc
// @Summary List the admin's time off
// @Tags TimeOff
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /time-off [get]
// @Security BearerAuth
func (h *TimeOffHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	periods, err := h.timeOff.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// Create godoc
// @Summary Declare a time off period
// @Tags TimeOff
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimeOffRequest true "Time off payload"
// @Success 201 {object} response.Envelope
// @Router /time-off [post]
// @Security BearerAuth
func (h *TimeOffHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	period, err := h.timeOff.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// Delete godoc
// @Summary Remove a time off period
// @Tags TimeOff
// @Param id path string true "Period ID"
// @Success 204
// @Router /time-off/{id} [delete]
// @Security BearerAuth
func (h *TimeOffHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.timeOff.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
