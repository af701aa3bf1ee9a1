package handler

import (
	"net/http"

	"talenta-backend/internal/domains/category"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/middleware"
	"talenta-backend/internal/shared/response"
	"talenta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service category.Service
}

func NewCategoryHandler(svc category.Service) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// GET /v1/categories?includeInactive=true
// ════════════════════════════════════════════════════════════════

// Tree lists active categories with their active subcategories. Admins
// may ask for inactive nodes too.
func (h *CategoryHandler) Tree(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true" && middleware.ActorFrom(c).IsAdmin()

	tree, err := h.service.Tree(c.Request.Context(), includeInactive)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if tree == nil {
		tree = []category.Category{}
	}
	response.Success(c, http.StatusOK, "Categories retrieved successfully", tree)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	cat, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !cat.IsActive && !middleware.ActorFrom(c).IsAdmin() {
		response.FromError(c, category.ErrCategoryNotFound)
		return
	}
	response.Success(c, http.StatusOK, "Category retrieved successfully", cat)
}

// ════════════════════════════════════════════════════════════════
// Admin writes
// ════════════════════════════════════════════════════════════════

func (h *CategoryHandler) Create(c *gin.Context) {
	var req category.CreateCategoryRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	cat, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Category created successfully", cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req category.UpdateCategoryRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	cat, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Category updated successfully", cat)
}

func (h *CategoryHandler) SetActive(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req category.SetActiveRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, apperror.FromValidation(err))
		return
	}

	cat, err := h.service.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		response.FromError(c, err)
		return
	}

	message := "Category deactivated successfully"
	if cat.IsActive {
		message = "Category activated successfully"
	}
	response.Success(c, http.StatusOK, message, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Category deleted successfully", nil)
}

func (h *CategoryHandler) CreateSubCategory(c *gin.Context) {
	categoryID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req category.CreateSubCategoryRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	sub, err := h.service.CreateSubCategory(c.Request.Context(), categoryID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Subcategory created successfully", sub)
}

func (h *CategoryHandler) UpdateSubCategory(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req category.UpdateSubCategoryRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	sub, err := h.service.UpdateSubCategory(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Subcategory updated successfully", sub)
}

func (h *CategoryHandler) DeleteSubCategory(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.DeleteSubCategory(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Subcategory deleted successfully", nil)
}
