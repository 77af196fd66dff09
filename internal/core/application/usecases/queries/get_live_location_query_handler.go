package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// GetLiveLocationQueryHandler resolves an assignment to its courier's last
// reported position. Assignments without an assigned courier have no live
// position and read as not found.
type GetLiveLocationQueryHandler struct {
	db *gorm.DB
}

// NewGetLiveLocationQueryHandler creates a handler for live-position queries.
func NewGetLiveLocationQueryHandler(db *gorm.DB) GetLiveLocationQueryHandler {
	return GetLiveLocationQueryHandler{db: db}
}

// Handle executes the live-position query.
func (h GetLiveLocationQueryHandler) Handle(
	ctx context.Context,
	query GetLiveLocationQuery,
) (GetLiveLocationQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetLiveLocationQueryResponse{}, err
	}

	var (
		resp      GetLiveLocationQueryResponse
		courierID uuid.UUID
		latitude  float64
		longitude float64
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			c.name,
			c.latitude,
			c.longitude,
			c.last_active_at
		FROM assignments a
		JOIN couriers c ON c.id = a.assigned_courier_id
		WHERE a.id = ?
	`, query.AssignmentID().String()).Row()

	if err := row.Scan(
		&courierID, &resp.CourierName, &latitude, &longitude, &resp.LastActiveAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetLiveLocationQueryResponse{}, errs.NewObjectNotFoundErrorWithCause(
				"assignment", query.AssignmentID().String(), err)
		}
		return GetLiveLocationQueryResponse{}, err
	}

	id, err := kernel.UUIDFromBytes(courierID[:])
	if err != nil {
		return GetLiveLocationQueryResponse{}, err
	}
	resp.CourierID = id

	location, err := kernel.NewGeoPoint(latitude, longitude)
	if err != nil {
		return GetLiveLocationQueryResponse{}, err
	}
	resp.Location = location

	return resp, nil
}
