package controllers

import (
	"net/http"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
)

const categoryNotFound = "Category not found"

// CategoryController handles HTTP requests for menu categories.
type CategoryController struct {
	service   services.CategoryService
	validator *RequestValidator
}

func NewCategoryController(service services.CategoryService, validator *RequestValidator) *CategoryController {
	return &CategoryController{service: service, validator: validator}
}

// ListCategories handles GET /categories/.
func (cc *CategoryController) ListCategories(c *gin.Context) {
	offset, limit, svcErr := cc.validator.ParsePagination(c)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	categories, page, svcErr := cc.service.ListCategories(c.Request.Context(), offset, limit)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "pagination": page})
}

// GetCategory handles GET /categories/:id.
func (cc *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseID(c, categoryNotFound)
	if !ok {
		return
	}
	category, svcErr := cc.service.GetCategory(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory handles POST /categories/.
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if svcErr := cc.validator.BindJSON(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	category, svcErr := cc.service.CreateCategory(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusCreated, category.ID, actionCreated)
}

// UpdateCategory handles PATCH /categories/:id.
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, categoryNotFound)
	if !ok {
		return
	}
	var req models.UpdateCategoryRequest
	if svcErr := cc.validator.BindJSON(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	category, svcErr := cc.service.UpdateCategory(c.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusOK, category.ID, actionUpdated)
}

// DeleteCategory handles DELETE /categories/:id.
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, categoryNotFound)
	if !ok {
		return
	}
	if svcErr := cc.service.DeleteCategory(c.Request.Context(), id); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusOK, id, actionDeleted)
}
