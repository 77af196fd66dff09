package queries

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/assignment"
)

// GetDeliveryStatsQueryHandler aggregates completed deliveries per day for a
// courier. Days without completions are absent from the result.
type GetDeliveryStatsQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryStatsQueryHandler creates a handler for delivery stats queries.
func NewGetDeliveryStatsQueryHandler(db *gorm.DB) GetDeliveryStatsQueryHandler {
	return GetDeliveryStatsQueryHandler{db: db}
}

// Handle executes the stats query, newest day first.
func (h GetDeliveryStatsQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryStatsQuery,
) ([]GetDeliveryStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT
			accepted_at::date AS day,
			COUNT(*) AS completed,
			COALESCE(SUM(fee_amount), 0) AS fee_total
		FROM assignments
		WHERE assigned_courier_id = ?
		  AND status = ?
		  AND accepted_at >= CURRENT_DATE - INTERVAL '%d days'
		GROUP BY accepted_at::date
		ORDER BY day DESC
	`, query.Days()),
		query.CourierID().String(),
		assignment.Completed.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]GetDeliveryStatsQueryResponse, 0)
	for rows.Next() {
		var resp GetDeliveryStatsQueryResponse
		if err = rows.Scan(&resp.Day, &resp.Completed, &resp.FeeTotal); err != nil {
			return nil, err
		}
		stats = append(stats, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
