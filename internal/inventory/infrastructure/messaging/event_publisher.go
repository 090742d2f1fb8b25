package messaging

import (
	"context"
	"time"

	"github.com/wyfcoding/inventory/internal/inventory/domain"
	"github.com/wyfcoding/inventory/pkg/logger"
	"github.com/wyfcoding/inventory/pkg/mq"
)

const (
	productCreatedEvent = "product.created"
	productDeletedEvent = "product.deleted"
)

type productEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// KafkaEventPublisher announces product changes on a Kafka topic.
// Publishing is best effort: a broker failure is logged and never fails the
// request that triggered it.
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) ProductCreated(ctx context.Context, product *domain.Product) {
	p.publish(ctx, productEvent{
		Type:      productCreatedEvent,
		UserID:    product.UserID,
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  product.Quantity,
		Timestamp: time.Now(),
	})
}

func (p *KafkaEventPublisher) ProductDeleted(ctx context.Context, userID, id string) {
	p.publish(ctx, productEvent{
		Type:      productDeletedEvent,
		UserID:    userID,
		ProductID: id,
		Timestamp: time.Now(),
	})
}

func (p *KafkaEventPublisher) publish(ctx context.Context, event productEvent) {
	if err := p.producer.SendMessage(ctx, p.topic, event.ProductID, event); err != nil {
		logger.Warn(ctx, "Failed to publish product event",
			"type", event.Type,
			"product_id", event.ProductID,
			"error", err,
		)
	}
}
