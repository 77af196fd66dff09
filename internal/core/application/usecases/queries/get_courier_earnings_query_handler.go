package queries

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/pkg/errs"
)

// GetCourierEarningsQueryHandler reads the wallet summary straight from the
// couriers row and counts completed assignments alongside it. The stored
// wallet is authoritative; the summary never recomputes balances from
// assignment history.
type GetCourierEarningsQueryHandler struct {
	db *gorm.DB
}

// NewGetCourierEarningsQueryHandler creates a handler for earnings queries.
func NewGetCourierEarningsQueryHandler(db *gorm.DB) GetCourierEarningsQueryHandler {
	return GetCourierEarningsQueryHandler{db: db}
}

// Handle executes the earnings summary query.
func (h GetCourierEarningsQueryHandler) Handle(
	ctx context.Context,
	query GetCourierEarningsQuery,
) (GetCourierEarningsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierEarningsQueryResponse{}, err
	}

	var resp GetCourierEarningsQueryResponse

	result := h.db.WithContext(ctx).Raw(`
		SELECT
			balance,
			total_earnings,
			today_earnings,
			earnings_reset_date
		FROM couriers
		WHERE id = ?
	`, query.CourierID().String()).Row()

	if err := result.Scan(
		&resp.Balance, &resp.TotalEarnings, &resp.TodayEarnings, &resp.EarningsResetDate,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetCourierEarningsQueryResponse{}, errs.NewObjectNotFoundErrorWithCause(
				"courier", query.CourierID().String(), err)
		}
		return GetCourierEarningsQueryResponse{}, err
	}

	resp.CourierID = query.CourierID()

	counts := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE accepted_at::date = CURRENT_DATE) AS completed_today,
			COUNT(*) AS completed_total
		FROM assignments
		WHERE assigned_courier_id = ? AND status = ?
	`, query.CourierID().String(), assignment.Completed.String()).Row()

	if err := counts.Scan(&resp.CompletedToday, &resp.CompletedTotal); err != nil {
		return GetCourierEarningsQueryResponse{}, err
	}

	return resp, nil
}
