package handler

import (
	"net/http"

	"talenta-backend/internal/domains/audiochapter"
	"talenta-backend/internal/shared/middleware"
	"talenta-backend/internal/shared/response"
	"talenta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type AudioChapterHandler struct {
	service audiochapter.Service
}

func NewAudioChapterHandler(svc audiochapter.Service) *AudioChapterHandler {
	return &AudioChapterHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// /v1/audios/:id/chapters
// ════════════════════════════════════════════════════════════════

func (h *AudioChapterHandler) List(c *gin.Context) {
	audioID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	listing, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), audiochapter.ListOptions{
		AudioID:            audioID,
		IncludeUnpublished: c.Query("includeUnpublished") == "true",
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio chapters retrieved successfully", listing)
}

func (h *AudioChapterHandler) Create(c *gin.Context) {
	audioID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req audiochapter.CreateRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	ch, err := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), audioID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Audio chapter created successfully", ch)
}

func (h *AudioChapterHandler) Reorder(c *gin.Context) {
	audioID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req audiochapter.ReorderRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	orders, err := h.service.Reorder(c.Request.Context(), middleware.ActorFrom(c), audioID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio chapters reordered successfully", orders)
}

// ════════════════════════════════════════════════════════════════
// /v1/audio-chapters/:chapterId
// ════════════════════════════════════════════════════════════════

func (h *AudioChapterHandler) Get(c *gin.Context) {
	id, err := utils.ParamUUID(c, "chapterId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	ch, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio chapter retrieved successfully", ch)
}

func (h *AudioChapterHandler) Update(c *gin.Context) {
	id, err := utils.ParamUUID(c, "chapterId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req audiochapter.UpdateRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	ch, err := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio chapter updated successfully", ch)
}

func (h *AudioChapterHandler) Delete(c *gin.Context) {
	id, err := utils.ParamUUID(c, "chapterId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio chapter deleted successfully", nil)
}
