package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetDeliveryStatsQueryIsNotConstructed = errors.New(
		"GetDeliveryStatsQuery must be created via NewGetDeliveryStatsQuery constructor",
	)
	ErrStatsDaysIsInvalid = errors.New("stats days must be greater than 0")
)

// GetDeliveryStatsQuery retrieves a courier's per-day completed delivery
// counts and fee totals over a trailing window of days.
type GetDeliveryStatsQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	days      int

	guard guard.ConstructorGuard
}

// NewGetDeliveryStatsQuery creates a stats query covering the last days days.
func NewGetDeliveryStatsQuery(courierID kernel.UUID, days int) (GetDeliveryStatsQuery, error) {
	query := GetDeliveryStatsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setCourierID(courierID),
		query.setDays(days),
	); err != nil {
		return GetDeliveryStatsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryStatsQueryIsNotConstructed)
}

// CourierID returns the courier whose stats are read.
func (q GetDeliveryStatsQuery) CourierID() kernel.UUID {
	return q.courierID
}

// Days returns the trailing window length in days.
func (q GetDeliveryStatsQuery) Days() int {
	return q.days
}

func (q *GetDeliveryStatsQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

func (q *GetDeliveryStatsQuery) setDays(days int) error {
	if days <= 0 {
		return ErrStatsDaysIsInvalid
	}

	q.days = days
	return nil
}

// GetDeliveryStatsQueryResponse is one day in the stats read model.
type GetDeliveryStatsQueryResponse struct {
	Day       time.Time
	Completed int
	FeeTotal  float64
}
