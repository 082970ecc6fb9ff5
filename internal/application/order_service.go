package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/scos-platform/order-service/internal/domain"
	"github.com/scos-platform/order-service/pkg/errors"
	"github.com/scos-platform/order-service/pkg/events"
	"github.com/scos-platform/order-service/pkg/kafka"
	"github.com/scos-platform/order-service/pkg/logging"
	"github.com/scos-platform/order-service/pkg/middleware"
)

// Quote outcome labels for business metrics
const (
	outcomeValid            = "valid"
	outcomeInvalidQuantity  = "invalid_quantity"
	outcomeInsufficientStk  = "insufficient_stock"
	outcomeShippingExceeded = "shipping_cap_exceeded"
)

// EventPublisher publishes domain event envelopes
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event *events.Envelope) error
}

// OrderApplicationService handles order quoting and submission use cases
type OrderApplicationService struct {
	warehouseRepo   domain.WarehouseRepository
	orderRepo       domain.OrderRepository
	producer        EventPublisher
	eventFactory    *events.Factory
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
}

// NewOrderApplicationService creates a new OrderApplicationService
func NewOrderApplicationService(
	warehouseRepo domain.WarehouseRepository,
	orderRepo domain.OrderRepository,
	producer EventPublisher,
	eventFactory *events.Factory,
	logger *logging.Logger,
	businessMetrics *middleware.BusinessMetrics,
) *OrderApplicationService {
	return &OrderApplicationService{
		warehouseRepo:   warehouseRepo,
		orderRepo:       orderRepo,
		producer:        producer,
		eventFactory:    eventFactory,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

// VerifyOrder quotes an order against a fresh warehouse snapshot without
// reserving or committing any stock. Safe to call repeatedly.
func (s *OrderApplicationService) VerifyOrder(ctx context.Context, cmd VerifyOrderCommand) (OrderQuoteDTO, error) {
	quote, err := s.verify(ctx, cmd.Quantity, cmd.Latitude, cmd.Longitude)
	if err != nil {
		return OrderQuoteDTO{}, err
	}
	return toQuoteDTO(quote), nil
}

// SubmitOrder re-verifies against a fresh snapshot and, when valid, commits
// the order atomically: order record, fulfillment segments and stock
// decrements all land or none do. An invalid quote comes back with an empty
// order number and storage untouched.
func (s *OrderApplicationService) SubmitOrder(ctx context.Context, cmd SubmitOrderCommand) (OrderSubmissionDTO, error) {
	quote, err := s.verify(ctx, cmd.Quantity, cmd.Latitude, cmd.Longitude)
	if err != nil {
		return OrderSubmissionDTO{}, err
	}

	if !quote.IsValid {
		s.publishRejected(ctx, quote)
		return toSubmissionDTO(domain.OrderSubmission{OrderQuote: quote}), nil
	}

	order := domain.NewOrderFromQuote(quote, domain.NewOrderNumber())

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		switch {
		case stderrors.Is(err, domain.ErrInsufficientStock):
			s.businessMetrics.RecordCommitConflict("insufficient_stock")
			return OrderSubmissionDTO{}, errors.ErrInvalidOrder(err.Error())
		case stderrors.Is(err, domain.ErrWarehouseNotFound):
			s.businessMetrics.RecordCommitConflict("warehouse_not_found")
			return OrderSubmissionDTO{}, errors.ErrInvalidOrder(err.Error())
		}
		s.logger.WithContext(ctx).WithError(err).Error("failed to commit order",
			"orderNumber", order.OrderNumber)
		return OrderSubmissionDTO{}, fmt.Errorf("failed to commit order: %w", err)
	}

	unitsByWarehouse := make(map[string]int, len(order.Fulfillments))
	for _, segment := range order.Fulfillments {
		unitsByWarehouse[segment.WarehouseName] += segment.Units
	}
	s.businessMetrics.RecordOrderConfirmed(unitsByWarehouse)

	s.publishConfirmed(ctx, order)

	s.logger.Event(ctx, "order.confirmed", map[string]any{
		"orderNumber": order.OrderNumber,
		"quantity":    order.QuantityOrdered,
		"warehouses":  len(order.Fulfillments),
	})

	return toSubmissionDTO(domain.OrderSubmission{
		OrderQuote:  quote,
		OrderNumber: order.OrderNumber,
	}), nil
}

// GetOrder retrieves a previously confirmed order by its order number
func (s *OrderApplicationService) GetOrder(ctx context.Context, orderNumber string) (OrderDTO, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if stderrors.Is(err, domain.ErrOrderNotFound) {
			return OrderDTO{}, errors.ErrNotFoundWithID("order", orderNumber)
		}
		return OrderDTO{}, fmt.Errorf("failed to load order %s: %w", orderNumber, err)
	}
	return toOrderDTO(order), nil
}

// verify runs the pricing, allocation and validity rules over one snapshot.
// Non-positive quantities short-circuit before any warehouse lookup.
func (s *OrderApplicationService) verify(ctx context.Context, quantity int, latitude, longitude float64) (domain.OrderQuote, error) {
	destination, err := domain.NewCoordinate(latitude, longitude)
	if err != nil {
		return domain.OrderQuote{}, errors.ErrValidation(err.Error())
	}

	if quantity <= 0 {
		s.businessMetrics.RecordQuote(outcomeInvalidQuantity)
		return domain.OrderQuote{
			Quantity:      quantity,
			Destination:   destination,
			IsValid:       false,
			InvalidReason: domain.ReasonInvalidQuantity,
		}, nil
	}

	warehouses, err := s.warehouseRepo.FindAll(ctx)
	if err != nil {
		return domain.OrderQuote{}, fmt.Errorf("failed to load warehouse snapshot: %w", err)
	}

	pricing, err := domain.PriceOrder(quantity)
	if err != nil {
		return domain.OrderQuote{}, err
	}

	fulfillment, err := domain.DetermineOptimalFulfillment(quantity, destination, warehouses)
	if err != nil {
		return domain.OrderQuote{}, err
	}

	shippingExceedsCap := fulfillment.TotalShippingCost > domain.MaxAllowedShippingCost(pricing.DiscountedPrice)
	isValid := fulfillment.SufficientStock && !shippingExceedsCap

	quote := domain.OrderQuote{
		Quantity:           quantity,
		Destination:        destination,
		TotalPrice:         pricing.BasePrice,
		DiscountPercentage: pricing.DiscountPercentage,
		DiscountedPrice:    pricing.DiscountedPrice,
		ShippingCost:       fulfillment.TotalShippingCost,
		IsValid:            isValid,
	}

	// Insufficient stock takes precedence over the shipping cap
	switch {
	case isValid:
		quote.FulfillmentPlan = fulfillment.Plan
		s.businessMetrics.RecordQuote(outcomeValid)
	case !fulfillment.SufficientStock:
		quote.InvalidReason = domain.ReasonInsufficientStock
		s.businessMetrics.RecordQuote(outcomeInsufficientStk)
	default:
		quote.InvalidReason = domain.ReasonShippingCapExceeded()
		s.businessMetrics.RecordQuote(outcomeShippingExceeded)
	}

	return quote, nil
}

// publishConfirmed emits a confirmation event. Publish failures are logged,
// not surfaced: the order is already committed.
func (s *OrderApplicationService) publishConfirmed(ctx context.Context, order *domain.Order) {
	allocations := make([]events.AllocationData, len(order.Fulfillments))
	for i, segment := range order.Fulfillments {
		allocations[i] = events.AllocationData{
			Warehouse:  segment.WarehouseName,
			Units:      segment.Units,
			DistanceKm: segment.Distance,
		}
	}

	event := s.eventFactory.CreateEvent(ctx, events.OrderConfirmed, order.OrderNumber, events.OrderConfirmedData{
		OrderNumber:     order.OrderNumber,
		Quantity:        order.QuantityOrdered,
		TotalPrice:      order.PriceAfterDiscount,
		DiscountApplied: order.DiscountPercentage,
		ShippingCost:    order.TotalShippingCost,
		Allocations:     allocations,
		Destination: events.OrderDestinationData{
			Latitude:  order.CustomerLatitude,
			Longitude: order.CustomerLongitude,
		},
	})

	if err := s.producer.PublishEvent(ctx, kafka.Topics.OrdersEvents, event); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to publish order confirmed event",
			"orderNumber", order.OrderNumber)
	}

	allocated := s.eventFactory.CreateEvent(ctx, events.InventoryAllocated, order.OrderNumber, events.InventoryAllocatedData{
		OrderNumber: order.OrderNumber,
		Quantity:    order.QuantityOrdered,
		Allocations: allocations,
	})

	if err := s.producer.PublishEvent(ctx, kafka.Topics.InventoryEvents, allocated); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to publish inventory allocated event",
			"orderNumber", order.OrderNumber)
	}
}

func (s *OrderApplicationService) publishRejected(ctx context.Context, quote domain.OrderQuote) {
	event := s.eventFactory.CreateEvent(ctx, events.OrderRejected, "", events.OrderRejectedData{
		Quantity: quote.Quantity,
		Reason:   quote.InvalidReason,
	})

	if err := s.producer.PublishEvent(ctx, kafka.Topics.OrdersEvents, event); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to publish order rejected event")
	}
}
