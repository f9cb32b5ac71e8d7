package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	aws_pkg "github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/pkg/aws"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// OrderEvent is the SNS message body for order lifecycle notifications.
type OrderEvent struct {
	Type      string             `json:"type"`
	OrderID   string             `json:"order_id"`
	Locator   string             `json:"locator,omitempty"`
	Status    models.OrderStatus `json:"status,omitempty"`
	Total     *decimal.Decimal   `json:"total,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// OrderEventPublisher announces order changes. Publishing never fails the
// request that triggered it.
type OrderEventPublisher interface {
	Publish(ctx context.Context, eventType string, order *models.Order)
}

type snsOrderEventPublisher struct {
	client   aws_pkg.SNSPublisher
	topicArn string
	logger   *zap.Logger
}

// NewOrderEventPublisher returns an SNS-backed publisher, or a no-op one when
// no client or topic is configured.
func NewOrderEventPublisher(client aws_pkg.SNSPublisher, topicArn string, logger *zap.Logger) OrderEventPublisher {
	if client == nil || topicArn == "" {
		return noopOrderEventPublisher{}
	}
	return &snsOrderEventPublisher{client: client, topicArn: topicArn, logger: logger}
}

func (p *snsOrderEventPublisher) Publish(ctx context.Context, eventType string, order *models.Order) {
	event := OrderEvent{
		Type:      eventType,
		OrderID:   order.ID.String(),
		Locator:   order.Locator,
		Status:    order.Status,
		Timestamp: time.Now().UTC(),
	}
	if eventType != EventOrderDeleted {
		total := order.Total
		event.Total = &total
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal order event", zap.Error(err))
		return
	}
	if err := p.client.Publish(ctx, p.topicArn, payload, map[string]string{"event_type": eventType}); err != nil {
		p.logger.Warn("Failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("Published order event", zap.String("event_type", eventType), zap.String("order_id", event.OrderID))
}

type noopOrderEventPublisher struct{}

func (noopOrderEventPublisher) Publish(ctx context.Context, eventType string, order *models.Order) {}
