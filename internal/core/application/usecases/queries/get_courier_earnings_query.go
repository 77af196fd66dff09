package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierEarningsQueryIsNotConstructed = errors.New(
	"GetCourierEarningsQuery must be created via NewGetCourierEarningsQuery constructor",
)

// GetCourierEarningsQuery retrieves a courier's wallet summary plus the
// number of deliveries completed today.
type GetCourierEarningsQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCourierEarningsQuery creates an earnings summary query.
func NewGetCourierEarningsQuery(courierID kernel.UUID) (GetCourierEarningsQuery, error) {
	query := GetCourierEarningsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCourierID(courierID); err != nil {
		return GetCourierEarningsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierEarningsQueryIsNotConstructed)
}

// CourierID returns the courier whose earnings are summarized.
func (q GetCourierEarningsQuery) CourierID() kernel.UUID {
	return q.courierID
}

func (q *GetCourierEarningsQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

// GetCourierEarningsQueryResponse is the wallet read model. Balance is the
// withdrawable amount after penalties and payouts; the earnings figures are
// gross credits and are never debited.
type GetCourierEarningsQueryResponse struct {
	CourierID         kernel.UUID
	Balance           float64
	TotalEarnings     float64
	TodayEarnings     float64
	EarningsResetDate time.Time
	CompletedToday    int
	CompletedTotal    int
}
