package handler

import (
	"net/http"

	"talenta-backend/internal/domains/contributor"
	"talenta-backend/internal/shared/middleware"
	"talenta-backend/internal/shared/response"
	"talenta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type ContributorHandler struct {
	service contributor.Service
}

func NewContributorHandler(svc contributor.Service) *ContributorHandler {
	return &ContributorHandler{service: svc}
}

// POST /v1/books/:id/contributors
func (h *ContributorHandler) Request(c *gin.Context) {
	bookID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	req, err := h.service.Request(c.Request.Context(), middleware.ActorFrom(c), bookID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Contribution request sent", req)
}

// GET /v1/books/:id/contributors
func (h *ContributorHandler) List(c *gin.Context) {
	bookID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	list, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), bookID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if list == nil {
		list = []contributor.Contributor{}
	}
	response.Success(c, http.StatusOK, "Contributors retrieved successfully", list)
}

// PATCH /v1/books/:id/contributors/:userId
func (h *ContributorHandler) Decide(c *gin.Context) {
	bookID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	userID, err := utils.ParamUUID(c, "userId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req contributor.DecisionRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	updated, err := h.service.Decide(c.Request.Context(), middleware.ActorFrom(c), bookID, userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Contribution request updated", updated)
}
