package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/service"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
	"github.com/noah-isme/sma-meet-api/pkg/response"
)

// SlotHandler exposes availability rule management for the authenticated
// admin.
type SlotHandler struct {
	slots *service.SlotService
}

func NewSlotHandler(slots *service.SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// List godoc
// @Summary List the admin's availability rules
// @Tags Slots
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /slots [get]
// @Security BearerAuth
func (h *SlotHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	slots, err := h.slots.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Create godoc
// @Summary Create an availability rule
// @Tags Slots
// @Accept json
// @Produce json
// @Param payload body dto.CreateSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /slots [post]
// @Security BearerAuth
func (h *SlotHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.slots.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Update godoc
// @Summary Update an availability rule
// @Tags Slots
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body dto.UpdateSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /slots/{id} [put]
// @Security BearerAuth
func (h *SlotHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.slots.Update(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Deactivate an availability rule
// @Tags Slots
// @Param id path string true "Slot ID"
// @Success 204
// @Router /slots/{id} [delete]
// @Security BearerAuth
func (h *SlotHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.slots.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
