package handler

import (
	"net/http"

	"talenta-backend/internal/domains/chapter"
	"talenta-backend/internal/shared/middleware"
	"talenta-backend/internal/shared/response"
	"talenta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	service chapter.Service
}

func NewChapterHandler(svc chapter.Service) *ChapterHandler {
	return &ChapterHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// /v1/books/:id/chapters
// ════════════════════════════════════════════════════════════════

// List answers GET /books/:id/chapters?includeUnpublished=true.
func (h *ChapterHandler) List(c *gin.Context) {
	bookID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	listing, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), chapter.ListOptions{
		BookID:             bookID,
		IncludeUnpublished: c.Query("includeUnpublished") == "true",
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Chapters retrieved successfully", listing)
}

func (h *ChapterHandler) Create(c *gin.Context) {
	bookID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req chapter.CreateChapterRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	ch, err := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), bookID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Chapter created successfully", ch)
}

func (h *ChapterHandler) Reorder(c *gin.Context) {
	bookID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req chapter.ReorderRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	orders, err := h.service.Reorder(c.Request.Context(), middleware.ActorFrom(c), bookID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Chapters reordered successfully", orders)
}

// ════════════════════════════════════════════════════════════════
// /v1/chapters/:chapterId
// ════════════════════════════════════════════════════════════════

func (h *ChapterHandler) Get(c *gin.Context) {
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
	response.Success(c, http.StatusOK, "Chapter retrieved successfully", ch)
}

func (h *ChapterHandler) Update(c *gin.Context) {
	id, err := utils.ParamUUID(c, "chapterId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req chapter.UpdateChapterRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	ch, err := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Chapter updated successfully", ch)
}

func (h *ChapterHandler) Delete(c *gin.Context) {
	id, err := utils.ParamUUID(c, "chapterId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Chapter deleted successfully", nil)
}
