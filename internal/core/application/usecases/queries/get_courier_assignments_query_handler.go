package queries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

var ErrQueryExpiryWindowIsInvalid = errors.New("query expiry window must be greater than 0")

// GetCourierAssignmentsQueryHandler serves the courier polling read. It
// returns the courier's claimed and finished assignments together with the
// still-open broadcast offers that include them. Offers past the expiry
// window are filtered out even when the sweep has not retired them yet, so
// pollers never see an offer they could not claim in time.
type GetCourierAssignmentsQueryHandler struct {
	db           *gorm.DB
	expiryWindow time.Duration
}

// NewGetCourierAssignmentsQueryHandler creates a handler for polling queries.
func NewGetCourierAssignmentsQueryHandler(
	db *gorm.DB, expiryWindow time.Duration,
) (GetCourierAssignmentsQueryHandler, error) {
	if expiryWindow <= 0 {
		return GetCourierAssignmentsQueryHandler{}, ErrQueryExpiryWindowIsInvalid
	}

	return GetCourierAssignmentsQueryHandler{
		db:           db,
		expiryWindow: expiryWindow,
	}, nil
}

// Handle executes the polling query. Open offers come first, newest first
// within each group.
func (h GetCourierAssignmentsQueryHandler) Handle(
	ctx context.Context,
	query GetCourierAssignmentsQuery,
) ([]GetCourierAssignmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	liveCutoff := time.Now().UTC().Add(-h.expiryWindow)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			a.id,
			a.order_id,
			a.sub_order_id,
			a.status,
			a.attempt,
			a.distance_km,
			a.fee_amount,
			a.created_at,
			a.accepted_at,
			so.delivery_latitude,
			so.delivery_longitude
		FROM assignments a
		JOIN sub_orders so ON so.id = a.sub_order_id
		WHERE a.assigned_courier_id = ?
		   OR (
			a.status = ?
			AND a.created_at >= ?
			AND EXISTS (
				SELECT 1 FROM assignment_broadcasts ab
				WHERE ab.assignment_id = a.id AND ab.courier_id = ?
			)
		   )
		ORDER BY a.status = ? DESC, a.created_at DESC
	`,
		query.CourierID().String(),
		assignment.Broadcast.String(),
		liveCutoff,
		query.CourierID().String(),
		assignment.Broadcast.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := make([]GetCourierAssignmentsQueryResponse, 0)
	for rows.Next() {
		var (
			resp       GetCourierAssignmentsQueryResponse
			id         uuid.UUID
			orderID    uuid.UUID
			subOrderID uuid.UUID
		)

		if err = rows.Scan(
			&id, &orderID, &subOrderID, &resp.Status, &resp.Attempt,
			&resp.DistanceKm, &resp.FeeAmount, &resp.CreatedAt, &resp.AcceptedAt,
			&resp.DeliveryLatitude, &resp.DeliveryLongitude,
		); err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if resp.SubOrderID, err = kernel.UUIDFromBytes(subOrderID[:]); err != nil {
			return nil, err
		}

		responses = append(responses, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
