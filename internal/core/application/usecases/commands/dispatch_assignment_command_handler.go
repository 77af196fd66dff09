package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var (
	ErrBroadcastRadiusIsInvalid = errors.New("broadcast radius must be greater than 0")
	ErrRecencyWindowIsInvalid   = errors.New("recency window must be greater than 0")
)

// DispatchAssignmentCommandHandler orchestrates the broadcast of a sub-order
// to nearby couriers. It authorizes the caller as the shop owner, collects
// candidates within the broadcast radius that reported a location recently,
// removes couriers already working an assignment, and creates the assignment
// in Broadcast status linked back to the sub-order.
//
// An empty candidate set still produces an assignment; the expiry sweep will
// retire it and a later dispatch can retry with a bumped attempt counter.
//
// Example:
//
//	handler, _ := NewDispatchAssignmentCommandHandler(uowFactory, 10, 30*time.Minute)
//	cmd, _ := NewDispatchAssignmentCommand(subOrderID, callerID)
//	assignmentID, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // Unknown sub-order
//	case errors.Is(err, errs.ErrNotAuthorized):
//	    // Caller does not own the shop
//	case errors.Is(err, errs.ErrConflict):
//	    // Sub-order already has a live assignment or left Preparing
//	}
type DispatchAssignmentCommandHandler struct {
	uowFactory    UoWFactory
	radiusKm      float64
	recencyWindow time.Duration
}

// NewDispatchAssignmentCommandHandler creates a handler for dispatch operations.
// radiusKm bounds the broadcast circle and recencyWindow bounds how stale a
// courier's last location report may be.
func NewDispatchAssignmentCommandHandler(
	uowFactory UoWFactory,
	radiusKm float64,
	recencyWindow time.Duration,
) (DispatchAssignmentCommandHandler, error) {
	if radiusKm <= 0 {
		return DispatchAssignmentCommandHandler{}, ErrBroadcastRadiusIsInvalid
	}
	if recencyWindow <= 0 {
		return DispatchAssignmentCommandHandler{}, ErrRecencyWindowIsInvalid
	}

	return DispatchAssignmentCommandHandler{
		uowFactory:    uowFactory,
		radiusKm:      radiusKm,
		recencyWindow: recencyWindow,
	}, nil
}

// Handle processes the dispatch command and returns the new assignment's id.
func (h DispatchAssignmentCommandHandler) Handle(
	ctx context.Context, command DispatchAssignmentCommand,
) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	subOrderRepo := uow.SubOrderRepository()
	assignmentRepo := uow.AssignmentRepository()

	subOrder, err := subOrderRepo.Get(ctx, command.SubOrderID())
	if err != nil {
		return kernel.UUID{}, err
	}

	ownerID, err := subOrderRepo.GetShopOwnerID(ctx, subOrder.ShopID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if !ownerID.IsEqual(command.CallerID()) {
		return kernel.UUID{}, errs.NewNotAuthorizedError("caller", command.CallerID().String())
	}

	if subOrder.Status() != order.Preparing {
		return kernel.UUID{}, errs.NewConflictError("sub-order status", subOrder.Status().String())
	}

	if err = h.validateNoLiveAssignment(ctx, assignmentRepo, subOrder); err != nil {
		return kernel.UUID{}, err
	}

	now := time.Now().UTC()

	broadcastTo, err := h.collectCandidates(ctx, uow, subOrder, now)
	if err != nil {
		return kernel.UUID{}, err
	}

	assignmentID := kernel.NewUUID()
	if err = subOrder.LinkAssignment(assignmentID); err != nil {
		return kernel.UUID{}, err
	}

	aggregate, err := assignment.NewAssignment(
		assignmentID,
		subOrder.OrderID(),
		subOrder.ShopID(),
		subOrder.ID(),
		broadcastTo,
		subOrder.Attempt(),
		now,
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = assignmentRepo.Add(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	if err = subOrderRepo.Update(ctx, subOrder); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return assignmentID, nil
}

// validateNoLiveAssignment rejects re-dispatch while a previous assignment is
// still in flight. Terminal assignments (Completed, Expired) allow a retry.
func (h DispatchAssignmentCommandHandler) validateNoLiveAssignment(
	ctx context.Context, assignmentRepo ports.AssignmentRepository, subOrder *order.SubOrder,
) error {
	linkedID := subOrder.AssignmentID()
	if linkedID == nil {
		return nil
	}

	linked, err := assignmentRepo.Get(ctx, *linkedID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !linked.Status().IsTerminal() {
		return errs.NewConflictError("assignment status", linked.Status().String())
	}

	return nil
}

// collectCandidates builds the broadcast set: couriers near the delivery
// point with a fresh location report, minus those already holding an
// assignment.
func (h DispatchAssignmentCommandHandler) collectCandidates(
	ctx context.Context, uow UoW, subOrder *order.SubOrder, now time.Time,
) ([]kernel.UUID, error) {
	busyIDs, err := uow.AssignmentRepository().GetBusyCourierIDs(ctx)
	if err != nil {
		return nil, err
	}

	busy := make(map[string]struct{}, len(busyIDs))
	for _, id := range busyIDs {
		busy[id.String()] = struct{}{}
	}

	nearby, err := uow.CourierRepository().GetAllNear(
		ctx, subOrder.DeliveryPoint(), h.radiusKm, now.Add(-h.recencyWindow))
	if err != nil {
		return nil, err
	}

	broadcastTo := make([]kernel.UUID, 0, len(nearby))
	for _, c := range nearby {
		if _, isBusy := busy[c.ID().String()]; isBusy {
			continue
		}
		broadcastTo = append(broadcastTo, c.ID())
	}

	return broadcastTo, nil
}
