package application

import (
	"github.com/scos-platform/order-service/internal/domain"
)

func toSegmentDTOs(segments []domain.FulfillmentSegment) []FulfillmentSegmentDTO {
	if segments == nil {
		return nil
	}
	dtos := make([]FulfillmentSegmentDTO, len(segments))
	for i, segment := range segments {
		dtos[i] = FulfillmentSegmentDTO{
			WarehouseID:   segment.WarehouseID,
			WarehouseName: segment.WarehouseName,
			Units:         segment.Units,
			Cost:          segment.Cost,
			Distance:      segment.Distance,
		}
	}
	return dtos
}

func toQuoteDTO(quote domain.OrderQuote) OrderQuoteDTO {
	dto := OrderQuoteDTO{
		TotalPrice:         quote.TotalPrice,
		DiscountPercentage: quote.DiscountPercentage,
		DiscountedPrice:    quote.DiscountedPrice,
		ShippingCost:       quote.ShippingCost,
		IsValid:            quote.IsValid,
		InvalidReason:      quote.InvalidReason,
	}
	if quote.IsValid {
		dto.FulfillmentPlan = toSegmentDTOs(quote.FulfillmentPlan)
	}
	return dto
}

func toSubmissionDTO(submission domain.OrderSubmission) OrderSubmissionDTO {
	return OrderSubmissionDTO{
		OrderQuoteDTO: toQuoteDTO(submission.OrderQuote),
		OrderNumber:   submission.OrderNumber,
	}
}

func toOrderDTO(order *domain.Order) OrderDTO {
	return OrderDTO{
		OrderNumber:        order.OrderNumber,
		QuantityOrdered:    order.QuantityOrdered,
		CustomerLatitude:   order.CustomerLatitude,
		CustomerLongitude:  order.CustomerLongitude,
		BasePrice:          order.BasePrice,
		DiscountPercentage: order.DiscountPercentage,
		PriceAfterDiscount: order.PriceAfterDiscount,
		TotalShippingCost:  order.TotalShippingCost,
		Status:             string(order.Status),
		Fulfillments:       toSegmentDTOs(order.Fulfillments),
		CreatedAt:          order.CreatedAt,
	}
}

func toWarehouseDTO(warehouse *domain.Warehouse) WarehouseDTO {
	return WarehouseDTO{
		ID:        warehouse.ID.Hex(),
		Name:      warehouse.Name,
		Latitude:  warehouse.Latitude,
		Longitude: warehouse.Longitude,
		Stock:     warehouse.Stock,
	}
}
