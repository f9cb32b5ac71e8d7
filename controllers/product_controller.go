package controllers

import (
	"net/http"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
)

const productNotFound = "Product not found"

// ProductController handles HTTP requests for menu products.
type ProductController struct {
	service   services.ProductService
	validator *RequestValidator
}

func NewProductController(service services.ProductService, validator *RequestValidator) *ProductController {
	return &ProductController{service: service, validator: validator}
}

// ListProducts handles GET /products/?category_id=.
func (pc *ProductController) ListProducts(c *gin.Context) {
	offset, limit, svcErr := pc.validator.ParsePagination(c)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	categoryID, svcErr := pc.validator.ParseOptionalUUIDQuery(c, "category_id")
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	products, page, svcErr := pc.service.ListProducts(c.Request.Context(), offset, limit, categoryID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "pagination": page})
}

// GetProduct handles GET /products/:id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseID(c, productNotFound)
	if !ok {
		return
	}
	product, svcErr := pc.service.GetProduct(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products/.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if svcErr := pc.validator.BindJSON(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	product, svcErr := pc.service.CreateProduct(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusCreated, product.ID, actionCreated)
}

// UpdateProduct handles PATCH /products/:id.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, productNotFound)
	if !ok {
		return
	}
	var req models.UpdateProductRequest
	if svcErr := pc.validator.BindJSON(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	product, svcErr := pc.service.UpdateProduct(c.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusOK, product.ID, actionUpdated)
}

// DeleteProduct handles DELETE /products/:id.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, productNotFound)
	if !ok {
		return
	}
	if svcErr := pc.service.DeleteProduct(c.Request.Context(), id); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusOK, id, actionDeleted)
}
