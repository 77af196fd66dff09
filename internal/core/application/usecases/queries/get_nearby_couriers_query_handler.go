package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

var (
	ErrQueryRadiusIsInvalid        = errors.New("query radius must be greater than 0")
	ErrQueryRecencyWindowIsInvalid = errors.New("query recency window must be greater than 0")
)

// GetNearbyCouriersQueryHandler reads recently active, unassigned couriers
// around a sub-order's delivery point. The radius filter uses the exact great-circle
// distance computed in the domain, and the result is ranked by the
// CourierRanker so the ordering matches what dispatch would see.
type GetNearbyCouriersQueryHandler struct {
	db            *gorm.DB
	radiusKm      float64
	recencyWindow time.Duration
}

// NewGetNearbyCouriersQueryHandler creates a handler for nearby-courier queries.
func NewGetNearbyCouriersQueryHandler(
	db *gorm.DB, radiusKm float64, recencyWindow time.Duration,
) (GetNearbyCouriersQueryHandler, error) {
	if radiusKm <= 0 {
		return GetNearbyCouriersQueryHandler{}, ErrQueryRadiusIsInvalid
	}
	if recencyWindow <= 0 {
		return GetNearbyCouriersQueryHandler{}, ErrQueryRecencyWindowIsInvalid
	}

	return GetNearbyCouriersQueryHandler{
		db:            db,
		radiusKm:      radiusKm,
		recencyWindow: recencyWindow,
	}, nil
}

// Handle executes the nearby-courier query.
func (h GetNearbyCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetNearbyCouriersQuery,
) ([]GetNearbyCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveryPoint, err := h.authorizeAndLocate(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, err := h.readActiveCouriers(ctx)
	if err != nil {
		return nil, err
	}

	ranked, err := services.NewCourierRanker().Rank(deliveryPoint, candidates)
	if err != nil {
		return nil, err
	}

	responses := make([]GetNearbyCouriersQueryResponse, 0, len(ranked))
	for _, rc := range ranked {
		if rc.DistanceKm > h.radiusKm {
			break
		}

		responses = append(responses, GetNearbyCouriersQueryResponse{
			ID:         rc.Courier.ID(),
			Name:       rc.Courier.Name(),
			Location:   rc.Courier.Location(),
			DistanceKm: rc.DistanceKm,
		})
	}

	return responses, nil
}

// authorizeAndLocate loads the sub-order row, checks shop ownership against
// the caller, and returns the delivery point.
func (h GetNearbyCouriersQueryHandler) authorizeAndLocate(
	ctx context.Context, query GetNearbyCouriersQuery,
) (kernel.GeoPoint, error) {
	var row struct {
		ShopOwnerID       uuid.UUID
		DeliveryLatitude  float64
		DeliveryLongitude float64
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT
			shop_owner_id,
			delivery_latitude,
			delivery_longitude
		FROM sub_orders
		WHERE id = ?
	`, query.SubOrderID().String()).Scan(&row)
	if result.Error != nil {
		return kernel.GeoPoint{}, result.Error
	}
	if result.RowsAffected == 0 {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("sub-order", query.SubOrderID().String())
	}

	ownerID, err := kernel.UUIDFromBytes(row.ShopOwnerID[:])
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	if !ownerID.IsEqual(query.CallerID()) {
		return kernel.GeoPoint{}, errs.NewNotAuthorizedError("caller", query.CallerID().String())
	}

	return kernel.NewGeoPoint(row.DeliveryLatitude, row.DeliveryLongitude)
}

// readActiveCouriers loads couriers whose last report falls inside the
// recency window, reconstructed as domain aggregates for exact ranking.
// Couriers already holding an Assigned delivery are excluded: dispatch
// would never broadcast to them, and the shop owner is shown only couriers
// a dispatch could actually reach.
func (h GetNearbyCouriersQueryHandler) readActiveCouriers(ctx context.Context) ([]*courier.Courier, error) {
	activeSince := time.Now().UTC().Add(-h.recencyWindow)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			latitude,
			longitude,
			last_active_at,
			balance,
			total_earnings,
			today_earnings,
			earnings_reset_date
		FROM couriers
		WHERE last_active_at >= ?
		AND NOT EXISTS (
			SELECT 1
			FROM assignments
			WHERE assignments.assigned_courier_id = couriers.id
			AND assignments.status = ?
		)
	`, activeSince, assignment.Assigned.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	couriers := make([]*courier.Courier, 0)
	for rows.Next() {
		c, scanErr := scanCourierRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		couriers = append(couriers, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}

// scanCourierRow rebuilds a courier aggregate from a couriers row.
func scanCourierRow(rows *sql.Rows) (*courier.Courier, error) {
	var (
		id                uuid.UUID
		name              string
		latitude          float64
		longitude         float64
		lastActiveAt      time.Time
		balance           float64
		totalEarnings     float64
		todayEarnings     float64
		earningsResetDate time.Time
	)

	if err := rows.Scan(
		&id, &name, &latitude, &longitude, &lastActiveAt,
		&balance, &totalEarnings, &todayEarnings, &earningsResetDate,
	); err != nil {
		return nil, err
	}

	courierID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(latitude, longitude)
	if err != nil {
		return nil, err
	}

	wallet, err := courier.RestoreWallet(balance, totalEarnings, todayEarnings, earningsResetDate)
	if err != nil {
		return nil, err
	}

	return courier.NewCourier(courierID, name, location, lastActiveAt, wallet)
}
