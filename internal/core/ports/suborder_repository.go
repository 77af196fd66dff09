package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// SubOrderRepository defines the persistence contract for the dispatch
// engine's view of sub-orders.
type SubOrderRepository interface {
	// Add persists a new sub-order to storage. The shop owner id is supplied
	// by the caller because ownership is shop data, not aggregate state; it
	// is written once and never changed afterwards.
	Add(ctx context.Context, aggregate *order.SubOrder, shopOwnerID kernel.UUID) error

	// Update persists changes to an existing sub-order: delivery status,
	// linked assignment, retry counter and confirmation code clearing.
	Update(ctx context.Context, aggregate *order.SubOrder) error

	// Get retrieves a sub-order by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.SubOrder, error)

	// GetShopOwnerID resolves the account that owns the given shop. Used to
	// authorize shop-scoped operations such as dispatch and courier lookup.
	GetShopOwnerID(ctx context.Context, shopID kernel.UUID) (kernel.UUID, error)
}
