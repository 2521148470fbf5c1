package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-meet-api/internal/dto"
	"github.com/noah-isme/sma-meet-api/internal/middleware"
	"github.com/noah-isme/sma-meet-api/internal/service"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
	"github.com/noah-isme/sma-meet-api/pkg/response"
)

// AvailabilityHandler exposes the free-window computation.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// List godoc
// @Summary List bookable windows
// @Tags Availability
// @Produce json
// @Param admin_id query string false "Admin ID, defaults to the first enabled admin"
// @Param meeting_type query string true "Meeting type"
// @Param from query string false "Range start (RFC3339)"
// @Param to query string false "Range end (RFC3339)"
// @Param viewer_tz query string false "IANA timezone for local rendering"
// @Param min_duration query int false "Minimum window length in minutes"
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	req := dto.AvailabilityRequest{
		AdminID:     c.Query("admin_id"),
		MeetingType: c.Query("meeting_type"),
		ViewerTZ:    c.Query("viewer_tz"),
	}

	if raw := c.Query("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be RFC3339"))
			return
		}
		req.RangeStart = &ts
	}
	if raw := c.Query("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be RFC3339"))
			return
		}
		req.RangeEnd = &ts
	}
	if raw := c.Query("min_duration"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "min_duration must be a non-negative integer"))
			return
		}
		req.MinDuration = minutes
	}

	windows, cacheHit, err := h.availability.ComputeWindows(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, windows, nil, middleware.ExtractMeta(c))
}
