package kafka

import (
	"context"
	"time"

	"github.com/scos-platform/order-service/pkg/events"
	"github.com/scos-platform/order-service/pkg/logging"
	"github.com/scos-platform/order-service/pkg/metrics"
)

// InstrumentedProducer wraps a Producer with metrics and logging
type InstrumentedProducer struct {
	producer *Producer
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewInstrumentedProducer creates a new instrumented producer
func NewInstrumentedProducer(producer *Producer, m *metrics.Metrics, logger *logging.Logger) *InstrumentedProducer {
	return &InstrumentedProducer{
		producer: producer,
		metrics:  m,
		logger:   logger,
	}
}

// PublishEvent publishes an event envelope, recording publish metrics
func (p *InstrumentedProducer) PublishEvent(ctx context.Context, topic string, event *events.Envelope) error {
	start := time.Now()

	err := p.producer.PublishEvent(ctx, topic, event)
	duration := time.Since(start)

	p.metrics.RecordKafkaPublish(topic, event.Type, err == nil, duration)

	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("failed to publish event",
			"topic", topic,
			"event_type", event.Type,
			"event_id", event.ID,
		)
		return err
	}

	p.logger.KafkaPublish(ctx, topic, event.Type, true, duration)
	return nil
}

// Close closes the underlying producer
func (p *InstrumentedProducer) Close() error {
	return p.producer.Close()
}
