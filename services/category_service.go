package services

import (
	"context"
	"errors"
	"strings"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	categoryNotFound = "Category not found"
	categoryExists   = "Category already exists"
)

type CategoryService interface {
	ListCategories(ctx context.Context, offset, limit int) ([]models.Category, Pagination, *ServiceError)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, *ServiceError)
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, *ServiceError)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, *ServiceError)
	DeleteCategory(ctx context.Context, id uuid.UUID) *ServiceError
}

type categoryServiceImpl struct {
	repo   repository.CategoryRepository
	logger *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryServiceImpl{repo: repo, logger: logger}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, offset, limit int) ([]models.Category, Pagination, *ServiceError) {
	categories, total, err := s.repo.FindAll(ctx, offset, limit)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, Pagination{}, NewInternalError(internalErrorMessage)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, NewPagination(offset, limit, total), nil
}

func (s *categoryServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, *ServiceError) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(categoryNotFound)
		}
		s.logger.Error("Failed to fetch category", zap.String("category_id", id.String()), zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}
	return category, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, *ServiceError) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError(models.FieldError{Field: "name", Message: "is required"})
	}
	category := &models.Category{Name: name, Icon: strings.TrimSpace(req.Icon)}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError(categoryExists)
		}
		s.logger.Error("Failed to create category", zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}
	return category, nil
}

func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, *ServiceError) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError(models.FieldError{Field: "name", Message: "must not be blank"})
		}
		fields["name"] = name
	}
	if req.Icon != nil {
		fields["icon"] = strings.TrimSpace(*req.Icon)
	}
	if len(fields) == 0 {
		return nil, NewValidationError(models.FieldError{Field: "body", Message: "at least one field must be provided"})
	}

	category, svcErr := s.GetCategory(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if v, ok := fields["name"]; ok {
		category.Name = v.(string)
	}
	if v, ok := fields["icon"]; ok {
		category.Icon = v.(string)
	}
	if err := s.repo.Update(ctx, category, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError(categoryExists)
		}
		s.logger.Error("Failed to update category", zap.String("category_id", id.String()), zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}
	return category, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) *ServiceError {
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count category products", zap.String("category_id", id.String()), zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	if count > 0 {
		return NewConflictError("Category has products and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return NewNotFoundError(categoryNotFound)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return NewConflictError("Category has products and cannot be deleted")
		}
		s.logger.Error("Failed to delete category", zap.String("category_id", id.String()), zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	return nil
}
