// Package assignmentrepo provides data transfer objects and mapping functions for
// assignment persistence. The broadcast set is stored in a separate join table so
// membership checks and courier-scoped offer listings stay indexed queries.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting assignment aggregates.
// Status is stored by name rather than by ordinal so the rows stay readable and the
// conditional status update can be expressed directly in SQL.
type AssignmentDTO struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID      `gorm:"type:uuid;not null;index"`
	ShopID            uuid.UUID      `gorm:"type:uuid;not null"`
	SubOrderID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	AssignedCourierID *uuid.UUID     `gorm:"type:uuid;index"`
	Status            string         `gorm:"type:varchar(16);not null;index"`
	Attempt           int            `gorm:"type:int;not null"`
	DistanceKm        float64        `gorm:"type:double precision;not null"`
	FeeAmount         float64        `gorm:"type:double precision;not null"`
	PenaltyApplied    bool           `gorm:"not null"`
	EarningsSettled   bool           `gorm:"not null"`
	CreatedAt         time.Time      `gorm:"not null;index"`
	AcceptedAt        *time.Time     ``
	Broadcasts        []BroadcastDTO `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// BroadcastDTO represents one courier membership in an assignment's broadcast set.
type BroadcastDTO struct {
	AssignmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName specifies the database table name for broadcast set entries.
func (BroadcastDTO) TableName() string {
	return "assignment_broadcasts"
}

// fromDomain converts an assignment domain aggregate to its database representation.
func fromDomain(aggregate *assignment.Assignment) AssignmentDTO {
	assignmentID := aggregate.ID().Bytes()

	broadcastSet := aggregate.BroadcastSet()
	broadcasts := make([]BroadcastDTO, 0, len(broadcastSet))
	for _, courierID := range broadcastSet {
		broadcasts = append(broadcasts, BroadcastDTO{
			AssignmentID: assignmentID,
			CourierID:    courierID.Bytes(),
		})
	}

	var assignedCourierID *uuid.UUID
	if assigned := aggregate.AssignedCourier(); assigned != nil {
		id := assigned.Bytes()
		assignedCourierID = &id
	}

	return AssignmentDTO{
		ID:                assignmentID,
		OrderID:           aggregate.OrderID().Bytes(),
		ShopID:            aggregate.ShopID().Bytes(),
		SubOrderID:        aggregate.SubOrderID().Bytes(),
		AssignedCourierID: assignedCourierID,
		Status:            aggregate.Status().String(),
		Attempt:           aggregate.Attempt(),
		DistanceKm:        aggregate.DistanceKm(),
		FeeAmount:         aggregate.FeeAmount(),
		PenaltyApplied:    aggregate.PenaltyApplied(),
		EarningsSettled:   aggregate.EarningsSettled(),
		CreatedAt:         aggregate.CreatedAt(),
		AcceptedAt:        aggregate.AcceptedAt(),
		Broadcasts:        broadcasts,
	}
}

// toDomain converts a database representation back to an assignment domain aggregate.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}

	subOrderID, err := kernel.UUIDFromBytes(dto.SubOrderID[:])
	if err != nil {
		return nil, err
	}

	broadcastTo := make([]kernel.UUID, 0, len(dto.Broadcasts))
	for _, broadcast := range dto.Broadcasts {
		courierID, err := kernel.UUIDFromBytes(broadcast.CourierID[:])
		if err != nil {
			return nil, err
		}
		broadcastTo = append(broadcastTo, courierID)
	}

	var assignedCourier *kernel.UUID
	if dto.AssignedCourierID != nil {
		courierID, err := kernel.UUIDFromBytes(dto.AssignedCourierID[:])
		if err != nil {
			return nil, err
		}
		assignedCourier = &courierID
	}

	status, err := assignment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(
		id,
		orderID,
		shopID,
		subOrderID,
		broadcastTo,
		assignedCourier,
		status,
		dto.Attempt,
		dto.DistanceKm,
		dto.FeeAmount,
		dto.PenaltyApplied,
		dto.EarningsSettled,
		dto.CreatedAt,
		dto.AcceptedAt,
	)
}
