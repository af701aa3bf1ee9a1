package handler

import (
	"net/http"

	"talenta-backend/internal/domains/audiopart"
	"talenta-backend/internal/shared/middleware"
	"talenta-backend/internal/shared/response"
	"talenta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type AudioPartHandler struct {
	service audiopart.Service
}

func NewAudioPartHandler(svc audiopart.Service) *AudioPartHandler {
	return &AudioPartHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// /v1/audio-chapters/:chapterId/parts
// ════════════════════════════════════════════════════════════════

func (h *AudioPartHandler) List(c *gin.Context) {
	chapterID, err := utils.ParamUUID(c, "chapterId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	listing, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), audiopart.ListOptions{
		ChapterID:          chapterID,
		IncludeUnpublished: c.Query("includeUnpublished") == "true",
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio parts retrieved successfully", listing)
}

// Create accepts JSON or a multipart form with an optional "audio" file.
func (h *AudioPartHandler) Create(c *gin.Context) {
	chapterID, err := utils.ParamUUID(c, "chapterId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req audiopart.CreateRequest
	if err := utils.BindForm(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	file, release, err := utils.FormFile(c, "audio")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer release()

	part, err := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), chapterID, req, file)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Audio part created successfully", part)
}

func (h *AudioPartHandler) Reorder(c *gin.Context) {
	chapterID, err := utils.ParamUUID(c, "chapterId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req audiopart.ReorderRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	orders, err := h.service.Reorder(c.Request.Context(), middleware.ActorFrom(c), chapterID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio parts reordered successfully", orders)
}

// ════════════════════════════════════════════════════════════════
// /v1/audio-parts/:partId
// ════════════════════════════════════════════════════════════════

func (h *AudioPartHandler) Get(c *gin.Context) {
	id, err := utils.ParamUUID(c, "partId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	part, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio part retrieved successfully", part)
}

func (h *AudioPartHandler) Update(c *gin.Context) {
	id, err := utils.ParamUUID(c, "partId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req audiopart.UpdateRequest
	if err := utils.BindForm(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	file, release, err := utils.FormFile(c, "audio")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer release()

	part, err := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), id, req, file)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio part updated successfully", part)
}

func (h *AudioPartHandler) Delete(c *gin.Context) {
	id, err := utils.ParamUUID(c, "partId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio part deleted successfully", nil)
}
