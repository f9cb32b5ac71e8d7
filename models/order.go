package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses lists every accepted status value.
var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in status s may move to next.
// Pending orders can be completed or cancelled; both of those are final.
// Re-applying the current status is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	return s == OrderStatusPending && (next == OrderStatusCompleted || next == OrderStatusCancelled)
}

// ErrLocatorMissing is returned when an order reaches the database without a locator.
var ErrLocatorMissing = errors.New("order locator must be set before persisting")

type Order struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Status     OrderStatus     `gorm:"type:varchar(20);not null" json:"status"`
	Total      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Locator    string          `gorm:"type:varchar(16);uniqueIndex;not null" json:"locator"`
	Notes      *string         `gorm:"type:text" json:"notes"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderLine is one requested line: a product, how many and at what unit price.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// LineTotal is quantity × unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type alias OrderItem
	return json.Marshal(struct {
		alias
		LineTotal decimal.Decimal `json:"line_total"`
	}{alias: alias(i), LineTotal: i.LineTotal()})
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// CalculateTotal sums the line totals of the current items.
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// NewOrder builds a pending order from lines, rejecting empty input and any
// line with a non-positive quantity or price. The total is computed here and
// the locator is left for the caller to assign.
func NewOrder(lines []OrderLine, notes *string, customerID *uuid.UUID) (*Order, error) {
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}

	order := &Order{
		ID:         id,
		Status:     OrderStatusPending,
		Notes:      notes,
		CustomerID: customerID,
		Items:      make([]OrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		order.Items = append(order.Items, OrderItem{
			ID:        uuid.New(),
			OrderID:   id,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}
	order.Total = order.CalculateTotal()
	return order, nil
}

func validateLines(lines []OrderLine) error {
	verr := &ValidationError{}
	if len(lines) == 0 {
		verr.add("items", "must contain at least one item")
		return verr
	}
	for i, line := range lines {
		prefix := fmt.Sprintf("items[%d]", i)
		if line.ProductID == uuid.Nil {
			verr.add(prefix+".product_id", "is required")
		}
		if line.Quantity <= 0 {
			verr.add(prefix+".quantity", "must be greater than 0")
		} else if line.Quantity > MaxQuantity {
			verr.add(prefix+".quantity", fmt.Sprintf("must be at most %d", MaxQuantity))
		}
		switch {
		case !line.Price.IsPositive():
			verr.add(prefix+".price", "must be greater than 0")
		case line.Price.GreaterThan(MaxPrice):
			verr.add(prefix+".price", "must be at most "+MaxPrice.StringFixed(MoneyPlaces))
		case !IsValidPrice(line.Price):
			verr.add(prefix+".price", fmt.Sprintf("must have at most %d decimal places", MoneyPlaces))
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	if linesTotal(lines).GreaterThan(MaxOrderTotal) {
		verr.add("items", "order total must be at most "+MaxOrderTotal.StringFixed(MoneyPlaces))
	}
	return verr.orNil()
}

func linesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// BeforeCreate re-checks the items and recomputes the total so no insert path
// can store an order whose total disagrees with its items.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	lines := make([]OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price})
	}
	if err := validateLines(lines); err != nil {
		return err
	}
	if o.Locator == "" {
		return ErrLocatorMissing
	}
	if o.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		o.ID = id
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	o.Total = o.CalculateTotal()
	return nil
}

// AfterFind recomputes the total from loaded items.
func (o *Order) AfterFind(tx *gorm.DB) error {
	if len(o.Items) > 0 {
		o.Total = o.CalculateTotal()
	}
	return nil
}
