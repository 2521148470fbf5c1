package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-meet-api/internal/service"
	appErrors "github.com/noah-isme/sma-meet-api/pkg/errors"
	"github.com/noah-isme/sma-meet-api/pkg/response"
)

// ExportHandler exposes agenda downloads for the authenticated admin.
type ExportHandler struct {
	exports *service.ExportService
}

func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Agenda godoc
// @Summary Download the upcoming meeting agenda
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param days query int false "Lookahead in days" default(7)
// @Success 200 {string} string "Encoded agenda"
// @Router /meetings/export [get]
// @Security BearerAuth
func (h *ExportHandler) Agenda(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "days must be a positive integer"))
			return
		}
		days = parsed
	}

	data, contentType, err := h.exports.RenderAgenda(c.Request.Context(), claims.UserID, days, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("agenda-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
