// Package events publishes production run events to Kafka so downstream
// consumers (dashboards, analytics, moderation review) can follow runs
// without polling the API.
package events

import (
	"encoding/json"
	"log"
	"time"

	"tooncraft/types"

	"github.com/IBM/sarama"
)

// Event is the wire format for every run event.
type Event struct {
	RunID     string    `json:"runId"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"` // "progress", "completed", "failed", "cancelled"
	Timestamp time.Time `json:"timestamp"`

	Progress *types.GenerationProgress `json:"progress,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

// Publisher emits run events. The zero-value NopPublisher keeps single-node
// deployments free of a broker requirement.
type Publisher interface {
	Publish(event Event)
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
func (NopPublisher) Close() error  { return nil }

// PublisherConfig holds Kafka producer configuration.
type PublisherConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher writes events to a single topic, keyed by run ID so one
// run's events stay ordered within a partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a synchronous producer.
func NewKafkaPublisher(config PublisherConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Kafka event publisher started (topic: %s)", config.Topic)
	return &KafkaPublisher{producer: producer, topic: config.Topic}, nil
}

// Publish sends one event. Event delivery is best effort: a broker hiccup is
// logged and never fails the production run that triggered it.
func (p *KafkaPublisher) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Failed to marshal run event: %v", err)
		return
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.RunID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		log.Printf("❌ Failed to publish run event: %v", err)
	}
}

// Close gracefully shuts down the producer.
func (p *KafkaPublisher) Close() error {
	log.Println("Closing Kafka event publisher...")
	return p.producer.Close()
}
