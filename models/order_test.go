package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(qty int, price string) OrderLine {
	return OrderLine{ProductID: uuid.New(), Quantity: qty, Price: decimal.RequireFromString(price)}
}

func TestNewOrder_Total(t *testing.T) {
	order, err := NewOrder([]OrderLine{line(2, "25.00"), line(1, "10.00")}, nil, nil)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("60").Equal(order.Total))
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, uint8(7), uint8(order.ID.Version()))
	for _, item := range order.Items {
		assert.Equal(t, order.ID, item.OrderID)
		assert.NotEqual(t, uuid.Nil, item.ID)
	}
}

func TestNewOrder_SmallestAmount(t *testing.T) {
	order, err := NewOrder([]OrderLine{line(1, "0.01")}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "0.01", order.Total.String())
}

func TestNewOrder_NoFloatDrift(t *testing.T) {
	lines := make([]OrderLine, 0, 10)
	for i := 0; i < 10; i++ {
		lines = append(lines, line(1, "0.10"))
	}
	order, err := NewOrder(lines, nil, nil)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(order.Total))
}

func TestNewOrder_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		lines []OrderLine
		field string
	}{
		{"empty", nil, "items"},
		{"zero quantity", []OrderLine{line(0, "1.00")}, "items[0].quantity"},
		{"negative quantity", []OrderLine{line(-1, "1.00")}, "items[0].quantity"},
		{"zero price", []OrderLine{line(1, "0")}, "items[0].price"},
		{"negative price", []OrderLine{line(1, "-3.50")}, "items[0].price"},
		{"sub-cent price", []OrderLine{line(1, "0.001")}, "items[0].price"},
		{"second line", []OrderLine{line(1, "1.00"), line(0, "1.00")}, "items[1].quantity"},
		{"missing product", []OrderLine{{Quantity: 1, Price: decimal.NewFromInt(1)}}, "items[0].product_id"},
		{"quantity beyond integer column", []OrderLine{line(MaxQuantity+1, "1.00")}, "items[0].quantity"},
		{"price beyond numeric column", []OrderLine{line(1, "100000000.00")}, "items[0].price"},
		{"total beyond numeric column", []OrderLine{line(2_000_000, "99999.00")}, "items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder(tt.lines, nil, nil)
			assert.Nil(t, order)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestNewOrder_AcceptsColumnLimits(t *testing.T) {
	order, err := NewOrder([]OrderLine{line(100, "99999999.99")}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "9999999999.00", order.Total.StringFixed(2))

	order, err = NewOrder([]OrderLine{line(MaxQuantity, "1.00")}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2147483647.00", order.Total.StringFixed(2))
}

func TestIsValidPrice(t *testing.T) {
	assert.True(t, IsValidPrice(MaxPrice))
	assert.True(t, IsValidPrice(decimal.RequireFromString("0.01")))
	assert.False(t, IsValidPrice(MaxPrice.Add(decimal.RequireFromString("0.01"))))
	assert.False(t, IsValidPrice(decimal.Zero))
}

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCompleted))
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusCompleted.CanTransitionTo(OrderStatusCompleted))
	assert.False(t, OrderStatusCompleted.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusCompleted))

	assert.True(t, OrderStatus("PENDING").IsValid())
	assert.False(t, OrderStatus("pending").IsValid())
	assert.False(t, OrderStatus("SHIPPED").IsValid())
}

func TestOrder_BeforeCreate(t *testing.T) {
	order := &Order{Items: []OrderItem{{ProductID: uuid.New(), Quantity: 3, Price: decimal.RequireFromString("2.50")}}}

	assert.ErrorIs(t, order.BeforeCreate(nil), ErrLocatorMissing)

	order.Locator = "ABCD2345"
	order.Total = decimal.NewFromInt(999)
	require.NoError(t, order.BeforeCreate(nil))
	assert.Equal(t, "7.5", order.Total.String())
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	order.Items[0].Quantity = 0
	var verr *ValidationError
	assert.ErrorAs(t, order.BeforeCreate(nil), &verr)
}

func TestOrder_AfterFindRecomputes(t *testing.T) {
	order := &Order{
		Total: decimal.NewFromInt(1),
		Items: []OrderItem{{Quantity: 4, Price: decimal.RequireFromString("1.25")}},
	}
	require.NoError(t, order.AfterFind(nil))
	assert.Equal(t, "5", order.Total.String())
}

func TestOrderItem_JSON(t *testing.T) {
	item := OrderItem{ID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("25.5")}

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 51.0, body["line_total"])
	assert.Equal(t, 25.5, body["price"])
	assert.Equal(t, 2.0, body["quantity"])
}
