package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"videoflix/dto"
	"videoflix/service"
)

func parseVideoID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		abortDetail(c, http.StatusNotFound, "Not found.")
		return 0, false
	}
	return uint(id), true
}

func (h *handlers) listVideos(c *gin.Context) {
	items, err := h.app.Catalog.List(c.Request.Context(), c.Query("genre"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) videoDetail(c *gin.Context) {
	id, ok := parseVideoID(c)
	if !ok {
		return
	}

	var userID *uint
	if p, ok := principal(c); ok {
		userID = &p
	}

	detail, err := h.app.Catalog.Detail(c.Request.Context(), id, c.Query("resolution"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *handlers) upload(c *gin.Context) {
	userID, _ := principal(c)

	file, header, err := c.Request.FormFile("original_file")
	if err != nil {
		abortDetail(c, http.StatusBadRequest, "original_file is required")
		return
	}
	defer file.Close()

	video, job, err := h.app.Catalog.Upload(c.Request.Context(), service.UploadInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Genre:       c.PostForm("genre"),
		FileName:    header.Filename,
		File:        file,
		OwnerID:     userID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	zerolog.Ctx(c.Request.Context()).Info().
		Uint("video_id", video.ID).
		Str("job_id", job.ID.String()).
		Msg("video uploaded")
	c.JSON(http.StatusCreated, dto.UploadResponse{
		Detail: "Video uploaded. Processing has started.",
		Id:     video.ID,
		JobId:  job.ID,
	})
}

func (h *handlers) jobStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortDetail(c, http.StatusNotFound, "Not found.")
		return
	}
	status, err := h.app.Catalog.JobStatus(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
