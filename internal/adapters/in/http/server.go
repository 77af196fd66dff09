// Package http is the inbound HTTP adapter. It translates echo requests into
// commands and queries and maps the error taxonomy onto status codes.
//
// Caller identity rides in the X-User-ID header: shop-owner endpoints treat it
// as the owner account id, courier endpoints as the courier id. Authentication
// itself happens upstream; this adapter only carries the identity through.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// callerHeader carries the authenticated account id set by the upstream proxy.
const callerHeader = "X-User-ID"

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	dispatchHandler        commands.DispatchAssignmentCommandHandler
	claimHandler           commands.ClaimAssignmentCommandHandler
	completeHandler        commands.CompleteAssignmentCommandHandler
	registerCourierHandler commands.RegisterCourierCommandHandler
	reportLocationHandler  commands.ReportLocationCommandHandler
	withdrawHandler        commands.WithdrawCommandHandler

	// Query handlers
	nearbyCouriersHandler     queries.GetNearbyCouriersQueryHandler
	courierAssignmentsHandler queries.GetCourierAssignmentsQueryHandler
	courierEarningsHandler    queries.GetCourierEarningsQueryHandler
	deliveryStatsHandler      queries.GetDeliveryStatsQueryHandler
	liveLocationHandler       queries.GetLiveLocationQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	dispatchHandler commands.DispatchAssignmentCommandHandler,
	claimHandler commands.ClaimAssignmentCommandHandler,
	completeHandler commands.CompleteAssignmentCommandHandler,
	registerCourierHandler commands.RegisterCourierCommandHandler,
	reportLocationHandler commands.ReportLocationCommandHandler,
	withdrawHandler commands.WithdrawCommandHandler,
	nearbyCouriersHandler queries.GetNearbyCouriersQueryHandler,
	courierAssignmentsHandler queries.GetCourierAssignmentsQueryHandler,
	courierEarningsHandler queries.GetCourierEarningsQueryHandler,
	deliveryStatsHandler queries.GetDeliveryStatsQueryHandler,
	liveLocationHandler queries.GetLiveLocationQueryHandler,
) *Server {
	return &Server{
		dispatchHandler:           dispatchHandler,
		claimHandler:              claimHandler,
		completeHandler:           completeHandler,
		registerCourierHandler:    registerCourierHandler,
		reportLocationHandler:     reportLocationHandler,
		withdrawHandler:           withdrawHandler,
		nearbyCouriersHandler:     nearbyCouriersHandler,
		courierAssignmentsHandler: courierAssignmentsHandler,
		courierEarningsHandler:    courierEarningsHandler,
		deliveryStatsHandler:      deliveryStatsHandler,
		liveLocationHandler:       liveLocationHandler,
	}
}

// RegisterRoutes wires every endpoint onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/couriers", s.RegisterCourier)
	api.POST("/couriers/location", s.ReportLocation)
	api.POST("/couriers/withdraw", s.Withdraw)
	api.GET("/couriers/assignments", s.GetCourierAssignments)
	api.GET("/couriers/earnings", s.GetCourierEarnings)
	api.GET("/couriers/stats", s.GetDeliveryStats)

	api.POST("/sub-orders/:subOrderID/dispatch", s.DispatchAssignment)
	api.GET("/sub-orders/:subOrderID/nearby-couriers", s.GetNearbyCouriers)

	api.POST("/assignments/:assignmentID/claim", s.ClaimAssignment)
	api.POST("/assignments/:assignmentID/complete", s.CompleteAssignment)
	api.GET("/assignments/:assignmentID/live-location", s.GetLiveLocation)
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError maps the error taxonomy onto HTTP status codes: missing entities
// are 404, ownership and broadcast-set violations 403, lost races 409,
// malformed input 400, everything else 500.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrNotAuthorized):
		code = http.StatusForbidden
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

// callerID extracts the authenticated account id from the request headers.
func callerID(ctx echo.Context) (kernel.UUID, error) {
	raw := ctx.Request().Header.Get(callerHeader)
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(callerHeader + " header")
	}
	return kernel.UUIDFromString(raw)
}

// pathUUID extracts a UUID path parameter.
func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// RegisterCourierRequest is the body for POST /api/v1/couriers.
type RegisterCourierRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RegisterCourier handles POST /api/v1/couriers.
func (s *Server) RegisterCourier(ctx echo.Context) error {
	courierID, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request RegisterCourierRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewRegisterCourierCommand(courierID, request.Name, request.Latitude, request.Longitude)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.registerCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// ReportLocationRequest is the body for POST /api/v1/couriers/location.
type ReportLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReportLocation handles POST /api/v1/couriers/location. The reporting courier
// is identified by the caller header.
func (s *Server) ReportLocation(ctx echo.Context) error {
	courierID, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request ReportLocationRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewReportLocationCommand(courierID, request.Latitude, request.Longitude)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.reportLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// WithdrawRequest is the body for POST /api/v1/couriers/withdraw.
type WithdrawRequest struct {
	Amount float64 `json:"amount"`
}

// Withdraw handles POST /api/v1/couriers/withdraw.
func (s *Server) Withdraw(ctx echo.Context) error {
	courierID, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request WithdrawRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewWithdrawCommand(courierID, request.Amount)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.withdrawHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DispatchAssignmentResponse is the body returned by a successful dispatch.
type DispatchAssignmentResponse struct {
	AssignmentID string `json:"assignment_id"`
}

// DispatchAssignment handles POST /api/v1/sub-orders/:subOrderID/dispatch.
// Only the shop owner may dispatch; the new assignment id is returned even
// when the broadcast set came out empty.
func (s *Server) DispatchAssignment(ctx echo.Context) error {
	caller, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	subOrderID, err := pathUUID(ctx, "subOrderID")
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewDispatchAssignmentCommand(subOrderID, caller)
	if err != nil {
		return writeError(ctx, err)
	}

	assignmentID, err := s.dispatchHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, DispatchAssignmentResponse{
		AssignmentID: assignmentID.String(),
	})
}

// ClaimAssignment handles POST /api/v1/assignments/:assignmentID/claim. The
// claiming courier is identified by the caller header; losing a claim race
// yields 409.
func (s *Server) ClaimAssignment(ctx echo.Context) error {
	courierID, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	assignmentID, err := pathUUID(ctx, "assignmentID")
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewClaimAssignmentCommand(assignmentID, courierID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.claimHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteAssignmentRequest is the body for POST /api/v1/assignments/:assignmentID/complete.
type CompleteAssignmentRequest struct {
	DeliveryCode string `json:"delivery_code"`
}

// CompleteAssignment handles POST /api/v1/assignments/:assignmentID/complete.
// The delivery code is required only when the sub-order was created with one.
func (s *Server) CompleteAssignment(ctx echo.Context) error {
	courierID, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	assignmentID, err := pathUUID(ctx, "assignmentID")
	if err != nil {
		return writeError(ctx, err)
	}

	var request CompleteAssignmentRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewCompleteAssignmentCommand(assignmentID, courierID, request.DeliveryCode)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.completeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// NearbyCourier is one row of the nearby-couriers read model.
type NearbyCourier struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

// GetNearbyCouriers handles GET /api/v1/sub-orders/:subOrderID/nearby-couriers.
func (s *Server) GetNearbyCouriers(ctx echo.Context) error {
	caller, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	subOrderID, err := pathUUID(ctx, "subOrderID")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetNearbyCouriersQuery(subOrderID, caller)
	if err != nil {
		return writeError(ctx, err)
	}

	couriers, err := s.nearbyCouriersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]NearbyCourier, len(couriers))
	for i, c := range couriers {
		response[i] = NearbyCourier{
			ID:         c.ID.String(),
			Name:       c.Name,
			Latitude:   c.Location.Latitude(),
			Longitude:  c.Location.Longitude(),
			DistanceKm: c.DistanceKm,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CourierAssignment is one row of the courier polling read model.
type CourierAssignment struct {
	ID                string     `json:"id"`
	OrderID           string     `json:"order_id"`
	SubOrderID        string     `json:"sub_order_id"`
	Status            string     `json:"status"`
	Attempt           int        `json:"attempt"`
	DistanceKm        float64    `json:"distance_km"`
	FeeAmount         float64    `json:"fee_amount"`
	DeliveryLatitude  float64    `json:"delivery_latitude"`
	DeliveryLongitude float64    `json:"delivery_longitude"`
	CreatedAt         time.Time  `json:"created_at"`
	AcceptedAt        *time.Time `json:"accepted_at,omitempty"`
}

// GetCourierAssignments handles GET /api/v1/couriers/assignments: live
// broadcast offers for the calling courier plus their own history.
func (s *Server) GetCourierAssignments(ctx echo.Context) error {
	courierID, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetCourierAssignmentsQuery(courierID)
	if err != nil {
		return writeError(ctx, err)
	}

	assignments, err := s.courierAssignmentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]CourierAssignment, len(assignments))
	for i, a := range assignments {
		response[i] = CourierAssignment{
			ID:                a.ID.String(),
			OrderID:           a.OrderID.String(),
			SubOrderID:        a.SubOrderID.String(),
			Status:            a.Status,
			Attempt:           a.Attempt,
			DistanceKm:        a.DistanceKm,
			FeeAmount:         a.FeeAmount,
			DeliveryLatitude:  a.DeliveryLatitude,
			DeliveryLongitude: a.DeliveryLongitude,
			CreatedAt:         a.CreatedAt,
			AcceptedAt:        a.AcceptedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CourierEarnings is the earnings summary read model.
type CourierEarnings struct {
	CourierID         string    `json:"courier_id"`
	Balance           float64   `json:"balance"`
	TotalEarnings     float64   `json:"total_earnings"`
	TodayEarnings     float64   `json:"today_earnings"`
	EarningsResetDate time.Time `json:"earnings_reset_date"`
	CompletedToday    int       `json:"completed_today"`
	CompletedTotal    int       `json:"completed_total"`
}

// GetCourierEarnings handles GET /api/v1/couriers/earnings.
func (s *Server) GetCourierEarnings(ctx echo.Context) error {
	courierID, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetCourierEarningsQuery(courierID)
	if err != nil {
		return writeError(ctx, err)
	}

	earnings, err := s.courierEarningsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CourierEarnings{
		CourierID:         earnings.CourierID.String(),
		Balance:           earnings.Balance,
		TotalEarnings:     earnings.TotalEarnings,
		TodayEarnings:     earnings.TodayEarnings,
		EarningsResetDate: earnings.EarningsResetDate,
		CompletedToday:    earnings.CompletedToday,
		CompletedTotal:    earnings.CompletedTotal,
	})
}

// DeliveryStatsDay is one day of the per-day delivery stats.
type DeliveryStatsDay struct {
	Day       time.Time `json:"day"`
	Completed int       `json:"completed"`
	FeeTotal  float64   `json:"fee_total"`
}

// GetDeliveryStats handles GET /api/v1/couriers/stats?days=N (default 7).
func (s *Server) GetDeliveryStats(ctx echo.Context) error {
	courierID, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	days := 7
	if raw := ctx.QueryParam("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("days", err))
		}
	}

	query, err := queries.NewGetDeliveryStatsQuery(courierID, days)
	if err != nil {
		return writeError(ctx, err)
	}

	stats, err := s.deliveryStatsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]DeliveryStatsDay, len(stats))
	for i, day := range stats {
		response[i] = DeliveryStatsDay{
			Day:       day.Day,
			Completed: day.Completed,
			FeeTotal:  day.FeeTotal,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// LiveLocation is the courier tracking read model.
type LiveLocation struct {
	CourierID    string    `json:"courier_id"`
	CourierName  string    `json:"courier_name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// GetLiveLocation handles GET /api/v1/assignments/:assignmentID/live-location.
func (s *Server) GetLiveLocation(ctx echo.Context) error {
	assignmentID, err := pathUUID(ctx, "assignmentID")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetLiveLocationQuery(assignmentID)
	if err != nil {
		return writeError(ctx, err)
	}

	location, err := s.liveLocationHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, LiveLocation{
		CourierID:    location.CourierID.String(),
		CourierName:  location.CourierName,
		Latitude:     location.Location.Latitude(),
		Longitude:    location.Location.Longitude(),
		LastActiveAt: location.LastActiveAt,
	})
}
