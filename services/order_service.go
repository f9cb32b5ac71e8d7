package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	orderNotFound = "Order not found"

	// maxLocatorAttempts bounds retries when a generated locator collides
	// with an existing one.
	maxLocatorAttempts = 5
)

type OrderService interface {
	ListOrders(ctx context.Context, offset, limit int) ([]models.Order, Pagination, *ServiceError)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError)
	GetOrderByLocator(ctx context.Context, locator string) (*models.Order, *ServiceError)
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *ServiceError)
	UpdateOrder(ctx context.Context, id uuid.UUID, req *models.UpdateOrderRequest) (*models.Order, *ServiceError)
	DeleteOrder(ctx context.Context, id uuid.UUID) *ServiceError
}

type orderServiceImpl struct {
	repo      repository.OrderRepository
	products  ProductLookup
	customers repository.CustomerRepository
	locators  LocatorGenerator
	events    OrderEventPublisher
	logger    *zap.Logger
}

func NewOrderService(
	repo repository.OrderRepository,
	products ProductLookup,
	customers repository.CustomerRepository,
	locators LocatorGenerator,
	events OrderEventPublisher,
	logger *zap.Logger,
) OrderService {
	if locators == nil {
		locators = NewLocatorGenerator()
	}
	if events == nil {
		events = noopOrderEventPublisher{}
	}
	return &orderServiceImpl{
		repo:      repo,
		products:  products,
		customers: customers,
		locators:  locators,
		events:    events,
		logger:    logger,
	}
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, offset, limit int) ([]models.Order, Pagination, *ServiceError) {
	orders, total, err := s.repo.FindAll(ctx, offset, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, Pagination{}, NewInternalError(internalErrorMessage)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, NewPagination(offset, limit, total), nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.readError(err, zap.String("order_id", id.String()))
	}
	return order, nil
}

func (s *orderServiceImpl) GetOrderByLocator(ctx context.Context, locator string) (*models.Order, *ServiceError) {
	locator = strings.ToUpper(strings.TrimSpace(locator))
	if locator == "" {
		return nil, NewNotFoundError(orderNotFound)
	}
	order, err := s.repo.FindByLocator(ctx, locator)
	if err != nil {
		return nil, s.readError(err, zap.String("locator", locator))
	}
	return order, nil
}

// CreateOrder validates the request, resolves every product in one lookup
// (snapshotting its price when the line carries none), and persists the order with a fresh
// locator. Nothing is written unless every product resolves.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *ServiceError) {
	if svcErr := validateOrderRequest(req); svcErr != nil {
		return nil, svcErr
	}

	if req.CustomerID != nil {
		if _, err := s.customers.FindByID(ctx, *req.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewNotFoundError(customerNotFound)
			}
			s.logger.Error("Failed to fetch customer", zap.String("customer_id", req.CustomerID.String()), zap.Error(err))
			return nil, NewInternalError(internalErrorMessage)
		}
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	resolved, svcErr := s.products.GetProducts(ctx, ids)
	if svcErr != nil {
		return nil, svcErr
	}

	lines := make([]models.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		product := resolved[item.ProductID]
		if !product.IsAvailable {
			return nil, NewConflictError(fmt.Sprintf("Product %s is not available", product.Name))
		}
		price := product.Price
		if item.Price != nil {
			price = *item.Price
		}
		lines = append(lines, models.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, Price: price})
	}

	order, err := models.NewOrder(lines, trimmedNotes(req.Notes), req.CustomerID)
	if err != nil {
		if svcErr, ok := fromModelError(err); ok {
			return nil, svcErr
		}
		s.logger.Error("Failed to build order", zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}

	if svcErr := s.persistWithLocator(ctx, order); svcErr != nil {
		return nil, svcErr
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("locator", order.Locator),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("items", len(order.Items)),
	)
	s.events.Publish(ctx, EventOrderCreated, order)
	return order, nil
}

func (s *orderServiceImpl) persistWithLocator(ctx context.Context, order *models.Order) *ServiceError {
	for attempt := 1; attempt <= maxLocatorAttempts; attempt++ {
		locator, err := s.locators.Generate()
		if err != nil {
			s.logger.Error("Failed to generate order locator", zap.Error(err))
			return NewInternalError(internalErrorMessage)
		}
		order.Locator = locator

		err = s.repo.Create(ctx, order)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gorm.ErrDuplicatedKey):
			s.logger.Warn("Order locator collision, retrying",
				zap.String("locator", locator),
				zap.Int("attempt", attempt),
			)
			continue
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return NewNotFoundError(productNotFound)
		default:
			if svcErr, ok := fromModelError(err); ok {
				return svcErr
			}
			s.logger.Error("Failed to create order", zap.Error(err))
			return NewInternalError(internalErrorMessage)
		}
	}

	s.logger.Error("Exhausted order locator attempts", zap.Int("attempts", maxLocatorAttempts))
	return NewInternalError("Could not allocate a unique order locator")
}

// UpdateOrder applies status and/or notes. Status changes follow
// OrderStatus.CanTransitionTo; the item collection and total never change here.
func (s *orderServiceImpl) UpdateOrder(ctx context.Context, id uuid.UUID, req *models.UpdateOrderRequest) (*models.Order, *ServiceError) {
	if req.Status == nil && req.Notes == nil {
		return nil, NewValidationError(models.FieldError{Field: "body", Message: "at least one of status, notes must be provided"})
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, NewValidationError(models.FieldError{Field: "status", Message: "must be one of " + statusList()})
	}

	order, svcErr := s.GetOrder(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	current := order.Status
	fields := map[string]interface{}{}
	if req.Status != nil {
		if !current.CanTransitionTo(*req.Status) {
			return nil, transitionConflict(current, *req.Status)
		}
		fields["status"] = *req.Status
		order.Status = *req.Status
	}
	if req.Notes != nil {
		notes := trimmedNotes(req.Notes)
		fields["notes"] = notes
		order.Notes = notes
	}

	var err error
	if req.Status != nil {
		// The guard above ran on a snapshot; the write only lands if no other
		// request changed the status in between.
		err = s.repo.UpdateIfStatus(ctx, order, current, fields)
	} else {
		err = s.repo.Update(ctx, order, fields)
	}
	if errors.Is(err, repository.ErrOrderStatusChanged) {
		latest, svcErr := s.GetOrder(ctx, id)
		if svcErr != nil {
			return nil, svcErr
		}
		s.logger.Warn("Order status changed during update",
			zap.String("order_id", id.String()),
			zap.String("expected", string(current)),
			zap.String("actual", string(latest.Status)),
		)
		if latest.Status != current && latest.Status.CanTransitionTo(*req.Status) {
			// Statuses only move away from PENDING, so this recurses at most once.
			return s.UpdateOrder(ctx, id, req)
		}
		return nil, transitionConflict(latest.Status, *req.Status)
	}
	if err != nil {
		s.logger.Error("Failed to update order", zap.String("order_id", id.String()), zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}

	s.events.Publish(ctx, EventOrderUpdated, order)
	return order, nil
}

func (s *orderServiceImpl) DeleteOrder(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError(orderNotFound)
		}
		s.logger.Error("Failed to delete order", zap.String("order_id", id.String()), zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	s.events.Publish(ctx, EventOrderDeleted, &models.Order{ID: id})
	return nil
}

func (s *orderServiceImpl) readError(err error, field zap.Field) *ServiceError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError(orderNotFound)
	}
	s.logger.Error("Failed to fetch order", field, zap.Error(err))
	return NewInternalError(internalErrorMessage)
}

// validateOrderRequest rejects malformed lines before any lookup happens.
func validateOrderRequest(req *models.CreateOrderRequest) *ServiceError {
	if len(req.Items) == 0 {
		return NewValidationError(models.FieldError{Field: "items", Message: "must contain at least one item"})
	}
	var fieldErrs []models.FieldError
	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.ProductID == uuid.Nil {
			fieldErrs = append(fieldErrs, models.FieldError{Field: prefix + ".product_id", Message: "is required"})
		}
		if item.Quantity <= 0 {
			fieldErrs = append(fieldErrs, models.FieldError{Field: prefix + ".quantity", Message: "must be greater than 0"})
		} else if item.Quantity > models.MaxQuantity {
			fieldErrs = append(fieldErrs, models.FieldError{Field: prefix + ".quantity", Message: fmt.Sprintf("must be at most %d", models.MaxQuantity)})
		}
		if item.Price != nil && !models.IsValidPrice(*item.Price) {
			fieldErrs = append(fieldErrs, priceFieldError(prefix+".price"))
		}
	}
	if len(fieldErrs) > 0 {
		return NewValidationError(fieldErrs...)
	}
	return nil
}

func transitionConflict(from, to models.OrderStatus) *ServiceError {
	return NewConflictError(fmt.Sprintf("Cannot change order status from %s to %s", from, to))
}

func trimmedNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func statusList() string {
	names := make([]string, 0, len(models.OrderStatuses))
	for _, st := range models.OrderStatuses {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}
