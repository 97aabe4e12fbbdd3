package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/kafka"
	"github.com/caesariomj/jogjaelectrik-sub000/models"
	aws_pkg "github.com/caesariomj/jogjaelectrik-sub000/pkg/aws"
	"go.uber.org/zap"
)

// orderEventPublisher fans an order lifecycle event out to Kafka and,
// best-effort, to SNS. Publish failures are logged and never surfaced to
// the caller; the order write has already committed by the time an event
// goes out.
type orderEventPublisher struct {
	producer    kafka.ProducerAPI
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

func (p *orderEventPublisher) publish(ctx context.Context, order *models.Order, eventType string) {
	evt := models.OrderEvent{
		EventType:   eventType,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		Total:       order.Total,
		Status:      order.Status,
		Timestamp:   time.Now().UTC(),
	}

	if p.producer != nil {
		if err := p.producer.PublishOrderEvent(evt); err != nil {
			p.logger.Error("Failed to publish order event to Kafka",
				zap.String("event_type", eventType),
				zap.String("order_id", evt.OrderID),
				zap.Error(err),
			)
		}
	}

	if p.snsClient != nil && p.snsTopicArn != "" {
		payload, _ := json.Marshal(evt)
		if err := p.snsClient.Publish(ctx, p.snsTopicArn, payload); err != nil {
			p.logger.Error("Failed to publish order event to SNS",
				zap.String("event_type", eventType),
				zap.String("order_id", evt.OrderID),
				zap.Error(err),
			)
		}
	}
}
