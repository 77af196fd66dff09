// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// The wallet is flattened into the courier row so that earnings credits, penalty
// debits and withdrawals update atomically with the rest of the aggregate.
type CourierDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string    `gorm:"type:varchar(255);not null"`
	Latitude          float64   `gorm:"type:double precision;not null"`
	Longitude         float64   `gorm:"type:double precision;not null"`
	LastActiveAt      time.Time `gorm:"not null;index"`
	Balance           float64   `gorm:"type:double precision;not null"`
	TotalEarnings     float64   `gorm:"type:double precision;not null"`
	TodayEarnings     float64   `gorm:"type:double precision;not null"`
	EarningsResetDate time.Time `gorm:"not null"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	wallet := aggregate.Wallet()

	return CourierDTO{
		ID:                aggregate.ID().Bytes(),
		Name:              aggregate.Name(),
		Latitude:          aggregate.Location().Latitude(),
		Longitude:         aggregate.Location().Longitude(),
		LastActiveAt:      aggregate.LastActiveAt(),
		Balance:           wallet.Balance(),
		TotalEarnings:     wallet.TotalEarnings(),
		TodayEarnings:     wallet.TodayEarnings(),
		EarningsResetDate: wallet.EarningsResetDate(),
	}
}

// toDomain converts a database representation back to a courier domain aggregate.
// Rebuilds the aggregate through its constructors so the restored state passes
// the same validation as newly created couriers.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	wallet, err := courier.RestoreWallet(dto.Balance, dto.TotalEarnings, dto.TodayEarnings, dto.EarningsResetDate)
	if err != nil {
		return nil, err
	}

	return courier.NewCourier(id, dto.Name, location, dto.LastActiveAt, wallet)
}
