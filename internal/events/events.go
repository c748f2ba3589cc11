// Package events publishes order lifecycle events. The denormalized
// customer aggregates (totalAmount, orderCount, lastOrderDate) are
// maintained by an external collaborator that consumes these events; this
// backend only emits them. Publishing is best-effort: a broker failure is
// logged and never fails the originating request.
//
// Package events 发布订单生命周期事件。反规范化的客户聚合字段
// （totalAmount、orderCount、lastOrderDate）由消费这些事件的外部协作者
// 维护；本后端只负责发出。发布是尽力而为的：broker故障会被记录，
// 但绝不会使发起请求失败。
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/weblarek/backend/internal/model"
)

// Event types.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderDeleted       = "order.deleted"
)

// Event is the JSON payload written to the topic, keyed by order identity.
// Event 是写入主题的JSON负载，以订单标识为键。
type Event struct {
	Type        string       `json:"type"`
	OrderID     string       `json:"orderId"`
	OrderNumber int64        `json:"orderNumber"`
	CustomerID  string       `json:"customerId"`
	Status      model.Status `json:"status"`
	TotalAmount float64      `json:"totalAmount"`
	OccurredAt  time.Time    `json:"occurredAt"`
}

// FromOrder builds an event of the given type from an order record.
// FromOrder 从订单记录构建给定类型的事件。
func FromOrder(eventType string, o *model.Order) Event {
	return Event{
		Type:        eventType,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
}

// Publisher delivers order lifecycle events to interested collaborators.
// Publisher 将订单生命周期事件投递给感兴趣的协作者。
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop is the publisher used when events are disabled.
// Noop 是事件被禁用时使用的发布者。
type Noop struct{}

func (Noop) Publish(ctx context.Context, e Event) error { return nil }
func (Noop) Close() error                               { return nil }

// Kafka publishes events to a Kafka topic.
// Kafka 将事件发布到Kafka主题。
type Kafka struct {
	writer *kafka.Writer
}

// NewKafka creates a publisher writing to topic on the given brokers.
// NewKafka 创建向给定broker上的topic写入的发布者。
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (k *Kafka) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(e.OrderID),
		Value: value,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
