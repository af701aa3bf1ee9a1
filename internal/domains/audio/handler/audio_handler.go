package handler

import (
	"net/http"
	"strconv"

	"talenta-backend/internal/domains/audio"
	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/shared/middleware"
	"talenta-backend/internal/shared/response"
	"talenta-backend/internal/shared/stream"
	"talenta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type AudioHandler struct {
	service audio.Service
	blobs   storage.BlobStore
}

func NewAudioHandler(svc audio.Service, blobs storage.BlobStore) *AudioHandler {
	return &AudioHandler{service: svc, blobs: blobs}
}

// ════════════════════════════════════════════════════════════════
// POST /v1/audios/upload (multipart: audio, coverImage)
// ════════════════════════════════════════════════════════════════

func (h *AudioHandler) Upload(c *gin.Context) {
	var req audio.UploadAudioRequest
	if err := utils.BindForm(c, &req); err != nil {
		response.FromError(c, err)
		return
	}
	if tags, ok := utils.FormValue(c, "tags"); ok {
		req.Tags = tags
	}

	file, releaseFile, err := utils.FormFile(c, "audio")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer releaseFile()

	cover, releaseCover, err := utils.FormFile(c, "coverImage")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer releaseCover()

	a, err := h.service.Upload(c.Request.Context(), middleware.ActorFrom(c), req, file, cover)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Audio uploaded successfully", a)
}

// ════════════════════════════════════════════════════════════════
// GET /v1/audios, GET /v1/audios/me/drafts, GET /v1/audios/:id
// ════════════════════════════════════════════════════════════════

func (h *AudioHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, total, err := h.service.ListPublished(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	respondList(c, "Audios retrieved successfully", items, filter, total)
}

func (h *AudioHandler) ListDrafts(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, total, err := h.service.ListDrafts(c.Request.Context(), middleware.ActorFrom(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	respondList(c, "Draft audios retrieved successfully", items, filter, total)
}

func (h *AudioHandler) Get(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	a, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio retrieved successfully", a)
}

// ════════════════════════════════════════════════════════════════
// STREAMING
// ════════════════════════════════════════════════════════════════

func (h *AudioHandler) Stream(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	src, err := h.service.Stream(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.serve(c, src)
}

func (h *AudioHandler) Play(c *gin.Context) {
	src, err := h.service.StreamByFileName(c.Request.Context(), middleware.ActorFrom(c), c.Param("filename"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.serve(c, src)
}

func (h *AudioHandler) serve(c *gin.Context, src *audio.StreamSource) {
	stream.Serve(c, h.blobs, stream.Object{
		Identifier:  src.Identifier,
		FileName:    src.FileName,
		ContentType: src.ContentType,
	})
}

// ════════════════════════════════════════════════════════════════
// PATCH /v1/audios/:id, PATCH /v1/audios/:id/status, DELETE /v1/audios/:id
// ════════════════════════════════════════════════════════════════

func (h *AudioHandler) Update(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req audio.UpdateAudioRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	a, err := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio updated successfully", a)
}

func (h *AudioHandler) UpdateStatus(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req audio.StatusRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	a, err := h.service.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio status updated successfully", a)
}

func (h *AudioHandler) Delete(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Audio deleted successfully", nil)
}

// ════════════════════════════════════════════════════════════════
// SEGMENTS
// ════════════════════════════════════════════════════════════════

func (h *AudioHandler) AppendSegment(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	file, release, err := utils.FormFile(c, "audio")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer release()

	a, err := h.service.AppendSegment(c.Request.Context(), middleware.ActorFrom(c), id, file)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Segment added successfully", a)
}

func (h *AudioHandler) ReorderSegments(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req audio.ReorderSegmentsRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	a, err := h.service.ReorderSegments(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Segments reordered successfully", a)
}

func (h *AudioHandler) RemoveSegment(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req audio.RemoveSegmentRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	a, err := h.service.RemoveSegment(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Segment removed successfully", a)
}

// ════════════════════════════════════════════════════════════════
// POST /v1/audios/:id/merge?publish=, POST /v1/audios/:id/publish?merge=
// ════════════════════════════════════════════════════════════════

func (h *AudioHandler) Merge(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.service.Merge(c.Request.Context(), middleware.ActorFrom(c), id, queryFlag(c, "publish"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if result.Warning != "" {
		response.SuccessWithWarning(c, http.StatusOK, "Audio published", result, result.Warning)
		return
	}
	msg := "Audio segments merged successfully"
	if !result.Merged {
		msg = "Audio published successfully"
	}
	response.Success(c, http.StatusOK, msg, result)
}

func (h *AudioHandler) Publish(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.service.Publish(c.Request.Context(), middleware.ActorFrom(c), id, queryFlag(c, "merge"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if result.Warning != "" {
		response.SuccessWithWarning(c, http.StatusOK, "Audio published successfully", result, result.Warning)
		return
	}
	response.Success(c, http.StatusOK, "Audio published successfully", result)
}

func queryFlag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

func listFilter(c *gin.Context) (audio.ListFilter, error) {
	page := utils.ParsePage(c, utils.DefaultLimit)
	filter := audio.ListFilter{Page: page.Page, Limit: page.Limit, Search: c.Query("search")}

	var err error
	if filter.CategoryID, err = utils.OptionalUUID(c.Query("categoryId")); err != nil {
		return filter, audio.ErrInvalidID
	}
	if filter.SubCategoryID, err = utils.OptionalUUID(c.Query("subCategoryId")); err != nil {
		return filter, audio.ErrInvalidID
	}
	return filter, nil
}

func respondList(c *gin.Context, msg string, items []audio.Audio, filter audio.ListFilter, total int64) {
	if items == nil {
		items = []audio.Audio{}
	}
	response.Paginated(c, msg, items, response.NewPagination(filter.Page, filter.Limit, total))
}
