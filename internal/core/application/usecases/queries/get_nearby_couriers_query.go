// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetNearbyCouriersQueryIsNotConstructed = errors.New(
	"GetNearbyCouriersQuery must be created via NewGetNearbyCouriersQuery constructor",
)

// GetNearbyCouriersQuery retrieves the couriers around a sub-order's delivery
// point, annotated with their distance. Only the owner of the sub-order's
// shop may run it.
//
// Example:
//
//	query, err := NewGetNearbyCouriersQuery(subOrderID, callerID)
//	if err != nil {
//	    return fmt.Errorf("invalid query: %w", err)
//	}
//
//	handler, _ := NewGetNearbyCouriersQueryHandler(db, 10, 30*time.Minute)
//	couriers, err := handler.Handle(ctx, query)
//	for _, c := range couriers {
//	    fmt.Printf("%s is %.2f km away\n", c.Name, c.DistanceKm)
//	}
type GetNearbyCouriersQuery struct { //nolint:recvcheck //using for validation
	subOrderID kernel.UUID
	callerID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetNearbyCouriersQuery creates a query for couriers near a sub-order's
// delivery point.
func NewGetNearbyCouriersQuery(subOrderID, callerID kernel.UUID) (GetNearbyCouriersQuery, error) {
	query := GetNearbyCouriersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setSubOrderID(subOrderID),
		query.setCallerID(callerID),
	); err != nil {
		return GetNearbyCouriersQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetNearbyCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetNearbyCouriersQueryIsNotConstructed)
}

// SubOrderID returns the sub-order whose surroundings are inspected.
func (q GetNearbyCouriersQuery) SubOrderID() kernel.UUID {
	return q.subOrderID
}

// CallerID returns the account running the query.
func (q GetNearbyCouriersQuery) CallerID() kernel.UUID {
	return q.callerID
}

func (q *GetNearbyCouriersQuery) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return err
	}

	q.subOrderID = subOrderID
	return nil
}

func (q *GetNearbyCouriersQuery) setCallerID(callerID kernel.UUID) error {
	if err := callerID.Validate(); err != nil {
		return err
	}

	q.callerID = callerID
	return nil
}

// GetNearbyCouriersQueryResponse is one courier in the nearby read model,
// sorted by distance ascending with courier id as the tie-break.
type GetNearbyCouriersQueryResponse struct {
	ID         kernel.UUID
	Name       string
	Location   kernel.GeoPoint
	DistanceKm float64
}
