package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier snapshots
// and their wallets.
type CourierRepository interface {
	// Add persists a new courier to storage.
	// The courier must be valid and not already exist in the repository.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists changes to an existing courier, including wallet
	// balances and the last reported location.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)
	// GetForUpdate retrieves a courier with its row locked until the
	// surrounding transaction ends. Every handler that mutates the courier
	// (wallet credits and debits, location reports) must read through this
	// method so writes to the same courier serialize instead of overwriting
	// each other. Must be called inside an open transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllNear retrieves couriers whose last reported location lies within
	// radiusKm of center and whose last report is not older than activeSince.
	// The result carries no ordering guarantee; callers rank it themselves.
	//
	// Business rules:
	//   - Distance is great-circle distance in kilometers
	//   - A courier exactly on the radius boundary is included
	//   - Couriers that never reported a location are excluded
	GetAllNear(ctx context.Context, center kernel.GeoPoint, radiusKm float64, activeSince time.Time) ([]*courier.Courier, error)
}
