package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-meet-api/internal/service"
	"github.com/noah-isme/sma-meet-api/pkg/response"
)

// ArtifactHandler serves stored calendar files behind signed tokens.
// The token is the only credential; links are shared in notifications.
type ArtifactHandler struct {
	artifacts *service.ArtifactService
}

func NewArtifactHandler(artifacts *service.ArtifactService) *ArtifactHandler {
	return &ArtifactHandler{artifacts: artifacts}
}

// Download godoc
// @Summary Download a meeting calendar file
// @Tags Artifacts
// @Produce plain
// @Param token path string true "Signed artifact token"
// @Success 200 {string} string "ICS payload"
// @Failure 401 {object} response.Envelope
// @Router /artifacts/{token} [get]
func (h *ArtifactHandler) Download(c *gin.Context) {
	data, err := h.artifacts.Fetch(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="meeting.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
