package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"talenta-backend/internal/domains/user"
	"talenta-backend/internal/shared/middleware"
	"talenta-backend/internal/shared/response"
	"talenta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AdminHandler struct {
	service user.AdminService
}

func NewAdminHandler(svc user.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

func filterFromQuery(c *gin.Context) user.ListFilter {
	page := utils.ParsePage(c, utils.DefaultLimit)
	return user.ListFilter{
		Page:      page.Page,
		Limit:     page.Limit,
		Search:    c.Query("search"),
		Role:      c.Query("role"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}

// ════════════════════════════════════════════════════════════════
// GET /v1/admin/users?page=1&limit=10&search=&role=&status=&sortBy=createdAt&sortOrder=desc
// ════════════════════════════════════════════════════════════════

func (h *AdminHandler) List(c *gin.Context) {
	filter := filterFromQuery(c)

	users, total, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, "Users retrieved successfully", users, response.NewPagination(filter.Page, filter.Limit, total))
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User statistics retrieved successfully", stats)
}

func (h *AdminHandler) Get(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	u, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved successfully", u)
}

func (h *AdminHandler) Update(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req user.UpdateUserRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	u, err := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User updated successfully", u)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, fmt.Sprintf("User %s deleted successfully", deleted.FullName()), nil)
}

// Content lists what a user owns. type is one of all, books, audio.
func (h *AdminHandler) Content(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	kind, err := user.ParseContentType(c.Query("type"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	content, err := h.service.Content(c.Request.Context(), middleware.ActorFrom(c), id, kind)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User content retrieved successfully", content)
}

// Export streams the filtered user list as an xlsx attachment.
func (h *AdminHandler) Export(c *gin.Context) {
	f, err := h.service.Export(c.Request.Context(), middleware.ActorFrom(c), filterFromQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		response.FromError(c, err)
		return
	}

	fileName := "users_" + time.Now().Format("20060102_150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())

	log.Info().Str("file", fileName).Int("bytes", buf.Len()).Msg("Users exported")
}
