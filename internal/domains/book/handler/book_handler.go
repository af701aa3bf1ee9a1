package handler

import (
	"net/http"

	"talenta-backend/internal/domains/book"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/shared/middleware"
	"talenta-backend/internal/shared/response"
	"talenta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	service book.Service
}

func NewBookHandler(svc book.Service) *BookHandler {
	return &BookHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// POST /v1/books (multipart: coverImage, bookFile)
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Create(c *gin.Context) {
	var req book.CreateBookRequest
	if err := utils.BindForm(c, &req); err != nil {
		response.FromError(c, err)
		return
	}
	if tags, ok := utils.FormValue(c, "tags"); ok {
		req.Tags = tags
	}

	cover, releaseCover, err := utils.FormFile(c, "coverImage")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer releaseCover()

	file, releaseFile, err := utils.FormFile(c, "bookFile")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer releaseFile()

	b, err := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), req, cover, file)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Book created successfully", b)
}

// ════════════════════════════════════════════════════════════════
// GET /v1/books, GET /v1/books/me
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	books, total, err := h.service.ListPublished(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	respondList(c, "Books retrieved successfully", books, filter, total)
}

// ListMine returns the caller's own books in every state. ?status= narrows
// to one state.
func (h *BookHandler) ListMine(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if raw := c.Query("status"); raw != "" {
		status, err := lifecycle.Parse(raw)
		if err != nil {
			response.FromError(c, err)
			return
		}
		filter.Statuses = []lifecycle.Status{status}
	}

	books, total, err := h.service.ListMine(c.Request.Context(), middleware.ActorFrom(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	respondList(c, "Your books retrieved successfully", books, filter, total)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	b, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Book retrieved successfully", b)
}

// Download answers with a short-lived attachment URL in the envelope.
func (h *BookHandler) Download(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	url, err := h.service.DownloadURL(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Download link created", gin.H{"downloadUrl": url})
}

// ════════════════════════════════════════════════════════════════
// PUT /v1/books/:id, PATCH /v1/books/:id/publish, DELETE /v1/books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Update(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req book.UpdateBookRequest
	if err := utils.BindForm(c, &req); err != nil {
		response.FromError(c, err)
		return
	}
	if tags, ok := utils.FormValue(c, "tags"); ok {
		req.Tags = tags
	}

	cover, releaseCover, err := utils.FormFile(c, "coverImage")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer releaseCover()

	file, releaseFile, err := utils.FormFile(c, "bookFile")
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer releaseFile()

	b, err := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), id, req, cover, file)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Book updated successfully", b)
}

func (h *BookHandler) Publish(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	b, err := h.service.Publish(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Book published successfully", b)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}

func listFilter(c *gin.Context) (book.ListFilter, error) {
	page := utils.ParsePage(c, utils.DefaultLimit)
	filter := book.ListFilter{Page: page.Page, Limit: page.Limit, Search: c.Query("search")}

	var err error
	if filter.CategoryID, err = utils.OptionalUUID(c.Query("categoryId")); err != nil {
		return filter, book.ErrInvalidID
	}
	if filter.SubCategoryID, err = utils.OptionalUUID(c.Query("subCategoryId")); err != nil {
		return filter, book.ErrInvalidID
	}
	return filter, nil
}

func respondList(c *gin.Context, msg string, books []book.Book, filter book.ListFilter, total int64) {
	if books == nil {
		books = []book.Book{}
	}
	response.Paginated(c, msg, books, response.NewPagination(filter.Page, filter.Limit, total))
}
