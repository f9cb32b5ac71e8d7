package repository

import (
	"context"
	"errors"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// updatableOrderColumns are the only columns Update will write.
var updatableOrderColumns = map[string]bool{
	"status": true,
	"notes":  true,
}

// ErrOrderStatusChanged is returned by UpdateIfStatus when the stored status no
// longer matches the one the caller checked.
var ErrOrderStatusChanged = errors.New("order status changed concurrently")

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindAll(ctx context.Context, offset, limit int) ([]models.Order, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByLocator(ctx context.Context, locator string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order, fields map[string]interface{}) error
	UpdateIfStatus(ctx context.Context, order *models.Order, current models.OrderStatus, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order and then its items in a single transaction.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		return tx.Create(&order.Items).Error
	})
}

// FindAll returns a page of orders, newest first. Items are loaded by a
// second query keyed on the page's order ids, so parents are never duplicated.
func (r *GormOrderRepository) FindAll(ctx context.Context, offset, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.
		Preload("Items", orderItemsByCreation).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// FindByID retrieves one order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByCreation).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByLocator retrieves one order by its customer-facing locator
func (r *GormOrderRepository) FindByLocator(ctx context.Context, locator string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByCreation).
		Where("locator = ?", locator).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Update writes the given status/notes fields. Any other key, including
// total, is ignored; updated_at is refreshed by GORM.
func (r *GormOrderRepository) Update(ctx context.Context, order *models.Order, fields map[string]interface{}) error {
	allowed := writableOrderFields(fields)
	if len(allowed) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(order).Omit(clause.Associations).Updates(allowed).Error
}

// UpdateIfStatus behaves like Update but only writes while the stored status
// is still current. It returns ErrOrderStatusChanged when no row matched.
func (r *GormOrderRepository) UpdateIfStatus(ctx context.Context, order *models.Order, current models.OrderStatus, fields map[string]interface{}) error {
	allowed := writableOrderFields(fields)
	if len(allowed) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(order).
		Where("status = ?", current).
		Omit(clause.Associations).
		Updates(allowed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStatusChanged
	}
	return nil
}

func writableOrderFields(fields map[string]interface{}) map[string]interface{} {
	allowed := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if updatableOrderColumns[k] {
			allowed[k] = v
		}
	}
	return allowed
}

// Delete removes the order's items and then the order in one transaction
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Order{}, id)
	})
}

func orderItemsByCreation(tx *gorm.DB) *gorm.DB {
	return tx.Order("created_at ASC").Order("id ASC")
}
