// Package suborderrepo provides data transfer objects and mapping functions for
// sub-order persistence.
package suborderrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// SubOrderDTO represents the database structure for persisting sub-order aggregates.
// ShopOwnerID is denormalized onto the row so ownership checks do not need a shops
// table; it is written once at creation and never changed by the aggregate.
type SubOrderDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	ShopID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	ShopOwnerID       uuid.UUID  `gorm:"type:uuid;not null"`
	DeliveryLatitude  float64    `gorm:"type:double precision;not null"`
	DeliveryLongitude float64    `gorm:"type:double precision;not null"`
	Status            string     `gorm:"type:varchar(16);not null"`
	Attempt           int        `gorm:"type:int;not null"`
	AssignmentID      *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryCode      string     `gorm:"type:varchar(16);not null"`
}

// TableName specifies the database table name for sub-order entities.
func (SubOrderDTO) TableName() string {
	return "sub_orders"
}

// fromDomain converts a sub-order domain aggregate to its database representation.
// The shop owner id lives outside the aggregate, so Update reads it back from the
// stored row and Add receives it explicitly.
func fromDomain(aggregate *order.SubOrder, shopOwnerID uuid.UUID) SubOrderDTO {
	var assignmentID *uuid.UUID
	if linked := aggregate.AssignmentID(); linked != nil {
		id := linked.Bytes()
		assignmentID = &id
	}

	return SubOrderDTO{
		ID:                aggregate.ID().Bytes(),
		OrderID:           aggregate.OrderID().Bytes(),
		ShopID:            aggregate.ShopID().Bytes(),
		ShopOwnerID:       shopOwnerID,
		DeliveryLatitude:  aggregate.DeliveryPoint().Latitude(),
		DeliveryLongitude: aggregate.DeliveryPoint().Longitude(),
		Status:            aggregate.Status().String(),
		Attempt:           aggregate.Attempt(),
		AssignmentID:      assignmentID,
		DeliveryCode:      aggregate.DeliveryCode(),
	}
}

// toDomain converts a database representation back to a sub-order domain aggregate.
func toDomain(dto SubOrderDTO) (*order.SubOrder, error) {
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

	deliveryPoint, err := kernel.NewGeoPoint(dto.DeliveryLatitude, dto.DeliveryLongitude)
	if err != nil {
		return nil, err
	}

	status, err := order.DeliveryStatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var assignmentID *kernel.UUID
	if dto.AssignmentID != nil {
		linked, err := kernel.UUIDFromBytes(dto.AssignmentID[:])
		if err != nil {
			return nil, err
		}
		assignmentID = &linked
	}

	return order.RestoreSubOrder(
		id,
		orderID,
		shopID,
		deliveryPoint,
		status,
		dto.Attempt,
		assignmentID,
		dto.DeliveryCode,
	)
}
