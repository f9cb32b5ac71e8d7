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
	customerNotFound = "Customer not found"
	customerExists   = "Customer already exists"
)

type CustomerService interface {
	ListCustomers(ctx context.Context, offset, limit int) ([]models.Customer, Pagination, *ServiceError)
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, *ServiceError)
	CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, *ServiceError)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req *models.UpdateCustomerRequest) (*models.Customer, *ServiceError)
	DeleteCustomer(ctx context.Context, id uuid.UUID) *ServiceError
}

type customerServiceImpl struct {
	repo   repository.CustomerRepository
	logger *zap.Logger
}

func NewCustomerService(repo repository.CustomerRepository, logger *zap.Logger) CustomerService {
	return &customerServiceImpl{repo: repo, logger: logger}
}

func (s *customerServiceImpl) ListCustomers(ctx context.Context, offset, limit int) ([]models.Customer, Pagination, *ServiceError) {
	customers, total, err := s.repo.FindAll(ctx, offset, limit)
	if err != nil {
		s.logger.Error("Failed to list customers", zap.Error(err))
		return nil, Pagination{}, NewInternalError(internalErrorMessage)
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, NewPagination(offset, limit, total), nil
}

func (s *customerServiceImpl) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, *ServiceError) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(customerNotFound)
		}
		s.logger.Error("Failed to fetch customer", zap.String("customer_id", id.String()), zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}
	return customer, nil
}

func (s *customerServiceImpl) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, *ServiceError) {
	customer := &models.Customer{
		Name:  strings.TrimSpace(req.Name),
		Email: normalizeEmail(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	}
	if customer.Name == "" {
		return nil, NewValidationError(models.FieldError{Field: "name", Message: "is required"})
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError(customerExists)
		}
		s.logger.Error("Failed to create customer", zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}
	return customer, nil
}

func (s *customerServiceImpl) UpdateCustomer(ctx context.Context, id uuid.UUID, req *models.UpdateCustomerRequest) (*models.Customer, *ServiceError) {
	customer, svcErr := s.GetCustomer(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError(models.FieldError{Field: "name", Message: "must not be blank"})
		}
		fields["name"], customer.Name = name, name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		fields["email"], customer.Email = email, email
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		fields["phone"], customer.Phone = phone, phone
	}
	if len(fields) == 0 {
		return nil, NewValidationError(models.FieldError{Field: "body", Message: "at least one field must be provided"})
	}

	if err := s.repo.Update(ctx, customer, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError(customerExists)
		}
		s.logger.Error("Failed to update customer", zap.String("customer_id", id.String()), zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}
	return customer, nil
}

func (s *customerServiceImpl) DeleteCustomer(ctx context.Context, id uuid.UUID) *ServiceError {
	count, err := s.repo.CountOrders(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count customer orders", zap.String("customer_id", id.String()), zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	if count > 0 {
		return NewConflictError("Customer has orders and cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return NewNotFoundError(customerNotFound)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return NewConflictError("Customer has orders and cannot be deleted")
		}
		s.logger.Error("Failed to delete customer", zap.String("customer_id", id.String()), zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
