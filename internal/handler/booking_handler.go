package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/service"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
	"github.com/noah-isme/sma-meet-api/pkg/response"
)

// BookingHandler exposes meeting booking.
type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create godoc
// @Summary Book a meeting
// @Tags Meetings
// @Accept json
// @Produce json
// @Param payload body dto.BookMeetingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /meetings [post]
// @Security BearerAuth
func (h *BookingHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.BookMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.bookings.Book(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
