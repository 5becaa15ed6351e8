package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/generator/domain"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/metrics"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/pkg/logger"
)

// DefaultRetryWait bounds each backpressure wait. Retries themselves
// are unbounded in count; a full outbound queue delays the stream, it
// never drops from it.
const DefaultRetryWait = time.Second

// PublisherOption customizes a Publisher.
type PublisherOption func(*Publisher)

// WithRetryWait overrides the bounded wait between enqueue retries.
func WithRetryWait(d time.Duration) PublisherOption {
	return func(p *Publisher) { p.retryWait = d }
}

// Publisher serializes transactions and hands them to the broker
// client with at-least-once delivery intent. Delivery confirmation is
// consumed asynchronously from the client's event channel and only
// consulted for observability and the final drain.
type Publisher struct {
	client    Client
	topic     string
	retryWait time.Duration

	accepted  atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64

	done chan struct{}
}

// NewPublisher wraps the broker client and starts the completion-log
// goroutine that drains delivery reports.
func NewPublisher(client Client, topic string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		client:    client,
		topic:     topic,
		retryWait: DefaultRetryWait,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	go p.consumeReports()

	return p
}

// Publish serializes tx and enqueues it keyed by transaction id. If
// the client's outbound queue is full it waits for the bounded retry
// interval and tries the same message again, indefinitely, unless ctx
// is cancelled mid-wait. Any other enqueue failure is returned to the
// caller; the event is not retried.
func (p *Publisher) Publish(ctx context.Context, tx domain.Transaction) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.transaction",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", p.topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("transaction.id", tx.TransactionID),
			attribute.String("transaction.status", tx.Status),
			attribute.Float64("transaction.total_amount", tx.TotalAmount),
		),
	)
	defer span.End()

	value, err := json.Marshal(tx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal transaction")
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	// Inject trace context into record headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := make([]kafka.Header, 0, len(carrier))
	for key, v := range carrier {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &p.topic,
			Partition: kafka.PartitionAny,
		},
		Key:     []byte(tx.TransactionID),
		Value:   value,
		Headers: headers,
	}

	for {
		err := p.client.Produce(msg, nil)
		if err == nil {
			p.accepted.Add(1)
			metrics.MessagesAccepted.Inc()
			span.SetStatus(codes.Ok, "Message accepted")
			return nil
		}

		if !isQueueFull(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to enqueue message")
			return fmt.Errorf("failed to enqueue message: %w", err)
		}

		// Outbound queue saturated; give the client's network loop a
		// bounded window to drain in-flight sends, then retry.
		metrics.QueueFullRetries.Inc()
		logger.WithContext(ctx).Warn().
			Str("transaction_id", tx.TransactionID).
			Dur("retry_wait", p.retryWait).
			Msg("Outbound queue full, throttling")

		select {
		case <-ctx.Done():
			span.SetStatus(codes.Error, "Cancelled during backpressure wait")
			return ctx.Err()
		case <-time.After(p.retryWait):
		}
	}
}

// Drain blocks until every outstanding message reaches a terminal
// delivery state or the timeout elapses. Invoked once at shutdown.
func (p *Publisher) Drain(timeout time.Duration) error {
	outstanding := p.client.Flush(int(timeout.Milliseconds()))

	logger.Logger.Info().
		Int64("accepted", p.Accepted()).
		Int64("delivered", p.Delivered()).
		Int64("failed", p.Failed()).
		Int("outstanding", outstanding).
		Msg("Delivery pipeline drained")

	if outstanding > 0 {
		return fmt.Errorf("%d messages still outstanding after drain", outstanding)
	}
	return nil
}

// Close shuts down the broker client and waits for the completion-log
// goroutine to exit.
func (p *Publisher) Close() {
	p.client.Close()
	<-p.done
}

// Accepted returns the count of messages accepted for delivery attempt.
func (p *Publisher) Accepted() int64 {
	return p.accepted.Load()
}

// Delivered returns the count of confirmed deliveries.
func (p *Publisher) Delivered() int64 {
	return p.delivered.Load()
}

// Failed returns the count of terminal delivery failures.
func (p *Publisher) Failed() int64 {
	return p.failed.Load()
}

// consumeReports is the completion log: it drains the client's event
// channel until the client closes it, counting terminal outcomes. A
// failed delivery is logged and counted, never resent.
func (p *Publisher) consumeReports() {
	defer close(p.done)

	for e := range p.client.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				p.failed.Add(1)
				metrics.Deliveries.WithLabelValues("failed").Inc()
				logger.Logger.Error().
					Err(ev.TopicPartition.Error).
					Str("key", string(ev.Key)).
					Msg("Message delivery failed")
				continue
			}
			p.delivered.Add(1)
			metrics.Deliveries.WithLabelValues("delivered").Inc()
			logger.Logger.Debug().
				Str("key", string(ev.Key)).
				Str("partition", ev.TopicPartition.String()).
				Msg("Message delivered")
		case kafka.Error:
			logger.Logger.Warn().
				Str("code", ev.Code().String()).
				Str("error", ev.Error()).
				Msg("Kafka client error")
		}
	}
}

func isQueueFull(err error) bool {
	var kerr kafka.Error
	return errors.As(err, &kerr) && kerr.Code() == kafka.ErrQueueFull
}
