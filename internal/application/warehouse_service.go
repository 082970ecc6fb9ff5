package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/scos-platform/order-service/internal/domain"
	"github.com/scos-platform/order-service/pkg/errors"
)

// WarehouseQueryService exposes read-only warehouse views
type WarehouseQueryService struct {
	warehouseRepo domain.WarehouseRepository
}

// NewWarehouseQueryService creates a new WarehouseQueryService
func NewWarehouseQueryService(warehouseRepo domain.WarehouseRepository) *WarehouseQueryService {
	return &WarehouseQueryService{warehouseRepo: warehouseRepo}
}

// ListWarehouses returns all warehouses ordered by name
func (s *WarehouseQueryService) ListWarehouses(ctx context.Context) ([]WarehouseDTO, error) {
	warehouses, err := s.warehouseRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}

	dtos := make([]WarehouseDTO, len(warehouses))
	for i, warehouse := range warehouses {
		dtos[i] = toWarehouseDTO(warehouse)
	}
	return dtos, nil
}

// GetWarehouse retrieves a single warehouse by its hex ID
func (s *WarehouseQueryService) GetWarehouse(ctx context.Context, id string) (WarehouseDTO, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, domain.ErrWarehouseNotFound) {
			return WarehouseDTO{}, errors.ErrNotFoundWithID("warehouse", id)
		}
		return WarehouseDTO{}, fmt.Errorf("failed to load warehouse %s: %w", id, err)
	}
	return toWarehouseDTO(warehouse), nil
}
