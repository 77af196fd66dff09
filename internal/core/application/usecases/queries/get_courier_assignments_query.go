package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierAssignmentsQueryIsNotConstructed = errors.New(
	"GetCourierAssignmentsQuery must be created via NewGetCourierAssignmentsQuery constructor",
)

// GetCourierAssignmentsQuery is the courier polling read: the courier's own
// claimed and finished assignments plus the broadcast offers currently open
// to them.
type GetCourierAssignmentsQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCourierAssignmentsQuery creates a polling query for one courier.
func NewGetCourierAssignmentsQuery(courierID kernel.UUID) (GetCourierAssignmentsQuery, error) {
	query := GetCourierAssignmentsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCourierID(courierID); err != nil {
		return GetCourierAssignmentsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierAssignmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierAssignmentsQueryIsNotConstructed)
}

// CourierID returns the polling courier.
func (q GetCourierAssignmentsQuery) CourierID() kernel.UUID {
	return q.courierID
}

func (q *GetCourierAssignmentsQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

// GetCourierAssignmentsQueryResponse is one assignment in the courier's
// polling read model. Open broadcast offers carry a nil AcceptedAt and a
// zero fee; claimed rows carry the claim-time distance and fee.
type GetCourierAssignmentsQueryResponse struct {
	ID                kernel.UUID
	OrderID           kernel.UUID
	SubOrderID        kernel.UUID
	Status            string
	Attempt           int
	DistanceKm        float64
	FeeAmount         float64
	DeliveryLatitude  float64
	DeliveryLongitude float64
	CreatedAt         time.Time
	AcceptedAt        *time.Time
}
