package kafka

import (
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/google/uuid"

	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/config"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/pkg/logger"
)

// Client is the subset of the broker producer the delivery pipeline
// depends on. *kafka.Producer satisfies it; tests substitute a fake.
type Client interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Close()
}

// NewClient builds the broker producer from configuration. Delivery
// reports stay enabled so the publisher's completion log sees every
// terminal outcome.
func NewClient(cfg *config.Config) (*kafka.Producer, error) {
	clientID := fmt.Sprintf("bestbuy-producer-%s", uuid.NewString()[:8])

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Kafka.BootstrapServers,
		"security.protocol": cfg.Kafka.SecurityProtocol,
		"sasl.mechanisms":   cfg.Kafka.SASLMechanism,
		"sasl.username":     cfg.Kafka.SASLUsername,
		"sasl.password":     cfg.Kafka.SASLPassword,
		"client.id":         clientID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Str("bootstrap_servers", cfg.Kafka.BootstrapServers).
		Str("security_protocol", cfg.Kafka.SecurityProtocol).
		Str("client_id", clientID).
		Msg("Kafka producer initialized")

	return producer, nil
}
