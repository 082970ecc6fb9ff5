package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/scos-platform/order-service/pkg/logging"
)

// Event types emitted by the order service
const (
	OrderConfirmed     = "scos.order.confirmed"
	OrderRejected      = "scos.order.rejected"
	InventoryAllocated = "scos.inventory.allocated"
)

// Envelope is a CloudEvents v1.0 style event envelope
type Envelope struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// Correlation extension, propagated from the originating HTTP request
	CorrelationID string `json:"correlationid,omitempty"`
}

// Factory creates event envelopes with a fixed source
type Factory struct {
	source string
}

// NewFactory creates a new event Factory
func NewFactory(source string) *Factory {
	return &Factory{source: source}
}

// CreateEvent builds an envelope for the given type, subject and payload,
// pulling the correlation ID from the context when present.
func (f *Factory) CreateEvent(ctx context.Context, eventType, subject string, data interface{}) *Envelope {
	envelope := &Envelope{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}

	if v := ctx.Value(logging.CorrelationIDKey); v != nil {
		if correlationID, ok := v.(string); ok {
			envelope.CorrelationID = correlationID
		}
	}

	return envelope
}
