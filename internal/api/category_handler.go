package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/middleware"
	"promptadmin-backend-go/internal/models"
)

// CategoryHandler handles API endpoints for category and subcategory
// administration.
type CategoryHandler struct {
	categoryService core.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(cs core.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: cs}
}

// CreateCategory handles POST /api/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GetCategory handles GET /api/categories/:categoryId
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetByID(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// ListCategories handles GET /api/categories?filter=active|trashed|all
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	filter, ok := listFilterFromQuery(c)
	if !ok {
		return
	}
	categories, err := h.categoryService.List(c.Request.Context(), filter)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// UpdateCategory handles PUT /api/categories/:categoryId
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), middleware.ActorID(c), c.Param("categoryId"), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// GetCategoryUsage handles GET /api/categories/:categoryId/usage. The
// frontend shows this before letting the operator confirm a delete.
func (h *CategoryHandler) GetCategoryUsage(c *gin.Context) {
	usage, err := h.categoryService.Usage(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// DeleteCategory handles DELETE /api/categories/:categoryId. The body carries
// the type-to-confirm name; the cascade trashes every embedded subcategory.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	var req models.DeleteCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.categoryService.SoftDelete(c.Request.Context(), middleware.ActorID(c), c.Param("categoryId"), req.ConfirmName); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Category and its subcategories moved to trash"})
}

// RestoreCategory handles POST /api/categories/:categoryId/restore.
// Subcategories are not restored with the parent.
func (h *CategoryHandler) RestoreCategory(c *gin.Context) {
	if err := h.categoryService.Restore(c.Request.Context(), middleware.ActorID(c), c.Param("categoryId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Category restored"})
}

// PurgeCategory handles DELETE /api/categories/:categoryId/purge. The
// type-to-confirm gate applies here too.
func (h *CategoryHandler) PurgeCategory(c *gin.Context) {
	var req models.DeleteCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.categoryService.PermanentDelete(c.Request.Context(), middleware.ActorID(c), c.Param("categoryId"), req.ConfirmName); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Category permanently deleted"})
}

// AddSubcategory handles POST /api/categories/:categoryId/subcategories
func (h *CategoryHandler) AddSubcategory(c *gin.Context) {
	var req models.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	category, err := h.categoryService.AddSubcategory(c.Request.Context(), middleware.ActorID(c), c.Param("categoryId"), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateSubcategory handles PUT /api/categories/:categoryId/subcategories/:subId
func (h *CategoryHandler) UpdateSubcategory(c *gin.Context) {
	var req models.UpdateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	category, err := h.categoryService.UpdateSubcategory(c.Request.Context(), middleware.ActorID(c), c.Param("categoryId"), c.Param("subId"), req)
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteSubcategory handles DELETE /api/categories/:categoryId/subcategories/:subId
// (moves the subcategory to trash inside the parent document).
func (h *CategoryHandler) DeleteSubcategory(c *gin.Context) {
	if err := h.categoryService.SoftDeleteSubcategory(c.Request.Context(), middleware.ActorID(c), c.Param("categoryId"), c.Param("subId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Subcategory moved to trash"})
}

// RestoreSubcategory handles POST /api/categories/:categoryId/subcategories/:subId/restore
func (h *CategoryHandler) RestoreSubcategory(c *gin.Context) {
	if err := h.categoryService.RestoreSubcategory(c.Request.Context(), middleware.ActorID(c), c.Param("categoryId"), c.Param("subId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Subcategory restored"})
}

// PurgeSubcategory handles DELETE /api/categories/:categoryId/subcategories/:subId/purge
// (removes a trashed subcategory from the parent document for good).
func (h *CategoryHandler) PurgeSubcategory(c *gin.Context) {
	if err := h.categoryService.RemoveSubcategory(c.Request.Context(), middleware.ActorID(c), c.Param("categoryId"), c.Param("subId")); err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Subcategory permanently deleted"})
}

// ListOrphanedSubcategories handles GET /api/categories/subcategories/orphaned.
// An orphan is a subcategory whose deletion state differs from its parent's.
func (h *CategoryHandler) ListOrphanedSubcategories(c *gin.Context) {
	orphans, err := h.categoryService.OrphanedSubcategories(c.Request.Context())
	if err != nil {
		mapServiceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, orphans)
}
