package suborderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSubOrderRepository implements SubOrderRepository using GORM.
type GormSubOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSubOrderRepository creates a new GORM sub-order repository.
func NewGormSubOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormSubOrderRepository {
	return &GormSubOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new sub-order to the database with its owning account.
func (r *GormSubOrderRepository) Add(ctx context.Context, aggregate *order.SubOrder, shopOwnerID kernel.UUID) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	if err := shopOwnerID.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate, shopOwnerID.Bytes())
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing sub-order. Only the columns the aggregate owns are
// written; shop_owner_id keeps its creation-time value.
func (r *GormSubOrderRepository) Update(ctx context.Context, aggregate *order.SubOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	var assignmentID any
	if linked := aggregate.AssignmentID(); linked != nil {
		assignmentID = linked.Bytes()
	}

	result := r.db.WithContext(ctx).Model(&SubOrderDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"status":        aggregate.Status().String(),
			"attempt":       aggregate.Attempt(),
			"assignment_id": assignmentID,
			"delivery_code": aggregate.DeliveryCode(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a sub-order by ID.
func (r *GormSubOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.SubOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SubOrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("sub-order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetShopOwnerID resolves the account that owns the given shop. The owner id
// is denormalized on every sub-order row, so any row for the shop answers.
func (r *GormSubOrderRepository) GetShopOwnerID(ctx context.Context, shopID kernel.UUID) (kernel.UUID, error) {
	if err := shopID.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var dto SubOrderDTO
	if err := r.db.WithContext(ctx).
		Select("shop_owner_id").
		First(&dto, "shop_id = ?", shopID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, errs.NewObjectNotFoundError("shop", shopID.String())
		}
		return kernel.UUID{}, err
	}

	return kernel.UUIDFromBytes(dto.ShopOwnerID[:])
}
