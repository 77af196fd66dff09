package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetLiveLocationQueryIsNotConstructed = errors.New(
	"GetLiveLocationQuery must be created via NewGetLiveLocationQuery constructor",
)

// GetLiveLocationQuery retrieves the assigned courier's last reported
// position for an assignment that is out for delivery.
type GetLiveLocationQuery struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetLiveLocationQuery creates a live-position query for an assignment.
func NewGetLiveLocationQuery(assignmentID kernel.UUID) (GetLiveLocationQuery, error) {
	query := GetLiveLocationQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setAssignmentID(assignmentID); err != nil {
		return GetLiveLocationQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetLiveLocationQuery) Validate() error {
	return q.guard.Validate(ErrGetLiveLocationQueryIsNotConstructed)
}

// AssignmentID returns the assignment being tracked.
func (q GetLiveLocationQuery) AssignmentID() kernel.UUID {
	return q.assignmentID
}

func (q *GetLiveLocationQuery) setAssignmentID(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	q.assignmentID = assignmentID
	return nil
}

// GetLiveLocationQueryResponse is the tracking read model.
type GetLiveLocationQueryResponse struct {
	CourierID    kernel.UUID
	CourierName  string
	Location     kernel.GeoPoint
	LastActiveAt time.Time
}
