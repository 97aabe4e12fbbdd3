package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/segmentio/kafka-go"
)

// ProducerAPI is the subset of the producer used by the services; tests
// swap in a fake.
type ProducerAPI interface {
	PublishOrderEvent(evt models.OrderEvent) error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a Kafka writer for the order-events topic.
func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Printf("[OrderEvents][KafkaProducer] initialized topic=%s brokers=%v", topic, brokers)
	return &Producer{writer: w, topic: topic}
}

// PublishOrderEvent publishes an order lifecycle event keyed by order id.
func (p *Producer) PublishOrderEvent(evt models.OrderEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: data,
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		log.Printf("[OrderEvents][KafkaProducer] failed to publish type=%s order=%s err=%v", evt.EventType, evt.OrderID, err)
		return err
	}
	return nil
}

func (p *Producer) Close() error {
	log.Printf("[OrderEvents][KafkaProducer] closing writer topic=%s", p.topic)
	return p.writer.Close()
}
