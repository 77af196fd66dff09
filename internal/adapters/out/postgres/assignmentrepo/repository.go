package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new assignment and its broadcast set to the database.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
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

// Update saves an existing assignment, but only if its stored status still
// equals expectedStatus. The status predicate rides in the WHERE clause, so
// under READ COMMITTED two racing writers serialize on the row lock and the
// loser matches zero rows. That loser gets a ConflictError, which resolves
// both claim-versus-claim and claim-versus-expiry races.
//
// Broadcast set rows are immutable after Add and are not touched here.
func (r *GormAssignmentRepository) Update(
	ctx context.Context,
	aggregate *assignment.Assignment,
	expectedStatus assignment.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	if err := expectedStatus.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("id = ? AND status = ?", dto.ID, expectedStatus.String()).
		Updates(map[string]any{
			"assigned_courier_id": dto.AssignedCourierID,
			"status":              dto.Status,
			"attempt":             dto.Attempt,
			"distance_km":         dto.DistanceKm,
			"fee_amount":          dto.FeeAmount,
			"penalty_applied":     dto.PenaltyApplied,
			"earnings_settled":    dto.EarningsSettled,
			"accepted_at":         dto.AcceptedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("assignment", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an assignment by ID, including its broadcast set.
func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).Preload("Broadcasts").
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetBusyCourierIDs retrieves the ids of couriers currently holding an
// assignment in Assigned status.
func (r *GormAssignmentRepository) GetBusyCourierIDs(ctx context.Context) ([]kernel.UUID, error) {
	var rawIDs []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("status = ? AND assigned_courier_id IS NOT NULL", assignment.Assigned.String()).
		Distinct().
		Pluck("assigned_courier_id", &rawIDs).Error; err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// GetAllBroadcastBefore retrieves assignments still in Broadcast status created
// before the cutoff, with their broadcast sets loaded for penalty application.
func (r *GormAssignmentRepository) GetAllBroadcastBefore(
	ctx context.Context,
	cutoff time.Time,
) ([]*assignment.Assignment, error) {
	var dtos []AssignmentDTO
	if err := r.db.WithContext(ctx).Preload("Broadcasts").
		Where("status = ? AND created_at < ?", assignment.Broadcast.String(), cutoff).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	assignments := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, aggregate)
	}

	return assignments, nil
}
