package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/cache"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	productNotFound = "Product not found"
	productExists   = "Product already exists"
)

// ProductLookup resolves products by id. Order creation depends only on this.
type ProductLookup interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)
	// GetProducts resolves every id in one query. A missing id is a 404.
	GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, *ServiceError)
}

type ProductService interface {
	ProductLookup
	ListProducts(ctx context.Context, offset, limit int, categoryID *uuid.UUID) ([]models.Product, Pagination, *ServiceError)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError)
	DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError
}

type productServiceImpl struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	cache      cache.ProductCache
	logger     *zap.Logger
}

func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	productCache cache.ProductCache,
	logger *zap.Logger,
) ProductService {
	if productCache == nil {
		productCache = cache.NoopProductCache{}
	}
	return &productServiceImpl{repo: repo, categories: categories, cache: productCache, logger: logger}
}

func (s *productServiceImpl) ListProducts(ctx context.Context, offset, limit int, categoryID *uuid.UUID) ([]models.Product, Pagination, *ServiceError) {
	products, total, err := s.repo.FindAll(ctx, offset, limit, repository.ProductFilter{CategoryID: categoryID})
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, Pagination{}, NewInternalError(internalErrorMessage)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, NewPagination(offset, limit, total), nil
}

// GetProduct reads through the product cache.
func (s *productServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	if product, ok := s.cache.Get(ctx, id); ok {
		return product, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(productNotFound)
		}
		s.logger.Error("Failed to fetch product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}
	s.cache.Set(ctx, product)
	return product, nil
}

func (s *productServiceImpl) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, *ServiceError) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	products, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		s.logger.Error("Failed to fetch products", zap.Int("count", len(unique)), zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}
	found := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		found[products[i].ID] = &products[i]
	}
	for _, id := range unique {
		if _, ok := found[id]; !ok {
			return nil, NewNotFoundError(productNotFound)
		}
	}
	return found, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError) {
	name := strings.TrimSpace(req.Name)
	var fieldErrs []models.FieldError
	if name == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "name", Message: "is required"})
	}
	if !models.IsValidPrice(req.Price) {
		fieldErrs = append(fieldErrs, priceFieldError("price"))
	}
	if len(fieldErrs) > 0 {
		return nil, NewValidationError(fieldErrs...)
	}

	if svcErr := s.ensureCategory(ctx, req.CategoryID); svcErr != nil {
		return nil, svcErr
	}

	product := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.writeError("create", uuid.Nil, err)
	}
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(productNotFound)
		}
		s.logger.Error("Failed to fetch product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError(models.FieldError{Field: "name", Message: "must not be blank"})
		}
		fields["name"] = name
		product.Name = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
		product.Description = fields["description"].(string)
	}
	if req.Price != nil {
		if !models.IsValidPrice(*req.Price) {
			return nil, NewValidationError(priceFieldError("price"))
		}
		fields["price"] = *req.Price
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		if svcErr := s.ensureCategory(ctx, *req.CategoryID); svcErr != nil {
			return nil, svcErr
		}
		fields["category_id"] = *req.CategoryID
		product.CategoryID = *req.CategoryID
	}
	if req.IsAvailable != nil {
		fields["is_available"] = *req.IsAvailable
		product.IsAvailable = *req.IsAvailable
	}
	if len(fields) == 0 {
		return nil, NewValidationError(models.FieldError{Field: "body", Message: "at least one field must be provided"})
	}

	if err := s.repo.Update(ctx, product, fields); err != nil {
		return nil, s.writeError("update", id, err)
	}
	s.cache.Delete(ctx, id)
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	count, err := s.repo.CountOrderItems(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count product order items", zap.String("product_id", id.String()), zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	if count > 0 {
		return NewConflictError("Product is referenced by existing orders")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return NewNotFoundError(productNotFound)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return NewConflictError("Product is referenced by existing orders")
		}
		s.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	s.cache.Delete(ctx, id)
	return nil
}

func (s *productServiceImpl) ensureCategory(ctx context.Context, id uuid.UUID) *ServiceError {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError(categoryNotFound)
		}
		s.logger.Error("Failed to fetch category", zap.String("category_id", id.String()), zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	return nil
}

func (s *productServiceImpl) writeError(op string, id uuid.UUID, err error) *ServiceError {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return NewConflictError(productExists)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return NewNotFoundError(categoryNotFound)
	}
	s.logger.Error("Failed to "+op+" product", zap.String("product_id", id.String()), zap.Error(err))
	return NewInternalError(internalErrorMessage)
}

func priceFieldError(field string) models.FieldError {
	return models.FieldError{
		Field:   field,
		Message: fmt.Sprintf("must be greater than 0, at most %s, with at most %d decimal places",
			models.MaxPrice.StringFixed(models.MoneyPlaces), models.MoneyPlaces),
	}
}
