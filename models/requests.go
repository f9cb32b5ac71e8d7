package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Icon string `json:"icon" validate:"max=255"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Icon *string `json:"icon" validate:"omitempty,max=255"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=150"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
	IsAvailable *bool           `json:"is_available"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=150"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	IsAvailable *bool            `json:"is_available"`
}

type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=150"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"max=30"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=150"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=30"`
}

// OrderItemRequest is one requested line. Price is the unit-price snapshot;
// when omitted the product's current price is captured.
type OrderItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	Price     *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
}

type CreateOrderRequest struct {
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes      *string            `json:"notes" validate:"omitempty,max=500"`
	CustomerID *uuid.UUID         `json:"customer_id"`
}

type UpdateOrderRequest struct {
	Status *OrderStatus `json:"status" validate:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	Notes  *string      `json:"notes" validate:"omitempty,max=500"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     Role   `json:"role" validate:"omitempty,oneof=admin user"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=admin user"`
	IsActive *bool   `json:"is_active"`
}

// TokenRequest accepts either a JSON body or an OAuth2 password form.
type TokenRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}
