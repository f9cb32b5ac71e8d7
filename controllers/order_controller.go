package controllers

import (
	"net/http"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const orderNotFound = "Order not found"

// OrderController handles HTTP requests for orders and their items.
type OrderController struct {
	service   services.OrderService
	validator *RequestValidator
	logger    *zap.Logger
}

func NewOrderController(service services.OrderService, validator *RequestValidator, logger *zap.Logger) *OrderController {
	return &OrderController{service: service, validator: validator, logger: logger}
}

// ListOrders handles GET /orders/. Orders come back newest first with their
// items embedded.
func (oc *OrderController) ListOrders(c *gin.Context) {
	offset, limit, svcErr := oc.validator.ParsePagination(c)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	orders, page, svcErr := oc.service.ListOrders(c.Request.Context(), offset, limit)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "pagination": page})
}

// GetOrder handles GET /orders/:id.
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseID(c, orderNotFound)
	if !ok {
		return
	}
	order, svcErr := oc.service.GetOrder(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrderByLocator handles GET /orders/locator/:locator.
func (oc *OrderController) GetOrderByLocator(c *gin.Context) {
	order, svcErr := oc.service.GetOrderByLocator(c.Request.Context(), c.Param("locator"))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreateOrder handles POST /orders/.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if svcErr := oc.validator.BindJSON(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	order, svcErr := oc.service.CreateOrder(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	oc.logger.Debug("Order accepted", zap.String("order_id", order.ID.String()), zap.String("request_id", c.GetString("request_id")))
	respondAction(c, http.StatusCreated, order.ID, actionCreated)
}

// UpdateOrder handles PATCH /orders/:id.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, orderNotFound)
	if !ok {
		return
	}
	var req models.UpdateOrderRequest
	if svcErr := oc.validator.BindJSON(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	order, svcErr := oc.service.UpdateOrder(c.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusOK, order.ID, actionUpdated)
}

// DeleteOrder handles DELETE /orders/:id.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, orderNotFound)
	if !ok {
		return
	}
	if svcErr := oc.service.DeleteOrder(c.Request.Context(), id); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusOK, id, actionDeleted)
}
