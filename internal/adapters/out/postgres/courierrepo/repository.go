package courierrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing courier to the database.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate retrieves a courier with SELECT ... FOR UPDATE, holding the
// row lock until the surrounding transaction commits or rolls back. Wallet
// mutations and location reports read through here so a concurrent credit,
// penalty or withdrawal against the same courier waits for the lock instead
// of overwriting the other writer's balance.
func (r *GormCourierRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllNear retrieves couriers within radiusKm of center that reported a
// location at or after activeSince. The recency filter runs in SQL; the exact
// great-circle distance check runs on the rebuilt aggregates because the
// schema stores raw coordinates rather than a geography type. A courier
// exactly on the radius boundary is included.
//
// Example:
//
//	nearby, err := repo.GetAllNear(ctx, deliveryPoint, 10, time.Now().Add(-30*time.Minute))
//	if err != nil {
//		return fmt.Errorf("failed to get nearby couriers: %w", err)
//	}
func (r *GormCourierRepository) GetAllNear(
	ctx context.Context,
	center kernel.GeoPoint,
	radiusKm float64,
	activeSince time.Time,
) ([]*courier.Courier, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}

	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Where("last_active_at >= ?", activeSince).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}

		distanceKm, err := c.DistanceKmTo(center)
		if err != nil {
			return nil, err
		}

		if distanceKm <= radiusKm {
			couriers = append(couriers, c)
		}
	}

	return couriers, nil
}
