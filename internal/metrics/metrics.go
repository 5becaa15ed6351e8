package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsGenerated counts transactions synthesized by the generator.
	EventsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "producer_events_generated_total",
		Help: "Total number of purchase events synthesized",
	})

	// MessagesAccepted counts messages accepted by the broker client's
	// outbound queue (delivery attempted, not yet confirmed).
	MessagesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "producer_messages_accepted_total",
		Help: "Total number of messages accepted for delivery attempt",
	})

	// Deliveries counts terminal delivery reports by result.
	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "producer_deliveries_total",
		Help: "Total number of delivery reports received, by result",
	}, []string{"result"})

	// QueueFullRetries counts bounded backpressure waits taken when the
	// outbound queue was full.
	QueueFullRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "producer_queue_full_retries_total",
		Help: "Total number of retries caused by a full outbound queue",
	})
)
