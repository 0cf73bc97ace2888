package events

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"vidcheck/types"
)

// Publisher fans stage-transition events out to observers. Events are
// advisory: a lost or failed publish never affects the run outcome.
type Publisher interface {
	Publish(event types.ProgressEvent)
	Close() error
}

// NopPublisher discards all events
type NopPublisher struct{}

func (NopPublisher) Publish(types.ProgressEvent) {}
func (NopPublisher) Close() error                { return nil }

// KafkaPublisher publishes progress events to a Kafka topic
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a sync producer to the given brokers
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &KafkaPublisher{producer: producer, topic: topic}, nil
}

// Publish sends one event, keyed by run id so a run's events stay ordered
// within a partition. Failures are logged and dropped.
func (p *KafkaPublisher) Publish(event types.ProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Failed to encode progress event: %v", err)
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.RunID),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("⚠️ Failed to publish progress event: %v", err)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
