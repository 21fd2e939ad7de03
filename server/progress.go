package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"videoflix/dto"
)

func (h *handlers) updateProgress(c *gin.Context) {
	userID, _ := principal(c)

	var req dto.ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VideoId == nil || req.PositionSeconds == nil {
		abortDetail(c, http.StatusBadRequest, "video_id and position_in_seconds are required.")
		return
	}

	progress, err := h.app.Progress.Upsert(c.Request.Context(), userID, *req.VideoId, *req.PositionSeconds)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProgressResponse{
		VideoId:         progress.VideoID,
		PositionSeconds: progress.PositionSeconds,
	})
}

func (h *handlers) continueWatching(c *gin.Context) {
	userID, _ := principal(c)

	items, err := h.app.Catalog.ContinueWatching(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
