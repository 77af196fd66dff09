package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
)

var ErrRatePerKmIsInvalid = errors.New("rate per km must be greater than 0")

// ClaimAssignmentCommandHandler resolves a courier's claim on a broadcast
// offer. The winning claim sets the courier, computes the delivery fee from
// the courier's last reported position, and moves the sub-order out for
// delivery. The repository update is conditional on the assignment still
// being in Broadcast, so of two racing claims exactly one commits and the
// loser observes a conflict.
//
// Example:
//
//	handler, _ := NewClaimAssignmentCommandHandler(uowFactory, 8)
//	cmd, _ := NewClaimAssignmentCommand(assignmentID, courierID)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // Unknown assignment or courier
//	case errors.Is(err, errs.ErrNotAuthorized):
//	    // Courier was not offered this assignment
//	case errors.Is(err, errs.ErrConflict):
//	    // Someone else claimed first, or the offer expired
//	}
type ClaimAssignmentCommandHandler struct {
	uowFactory UoWFactory
	ratePerKm  float64
}

// NewClaimAssignmentCommandHandler creates a handler for claim operations.
// ratePerKm converts the courier-to-destination distance into the fee.
func NewClaimAssignmentCommandHandler(uowFactory UoWFactory, ratePerKm float64) (ClaimAssignmentCommandHandler, error) {
	if ratePerKm <= 0 {
		return ClaimAssignmentCommandHandler{}, ErrRatePerKmIsInvalid
	}

	return ClaimAssignmentCommandHandler{
		uowFactory: uowFactory,
		ratePerKm:  ratePerKm,
	}, nil
}

// Handle processes the claim command.
func (h ClaimAssignmentCommandHandler) Handle(ctx context.Context, command ClaimAssignmentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignmentRepo := uow.AssignmentRepository()
	courierRepo := uow.CourierRepository()
	subOrderRepo := uow.SubOrderRepository()

	aggregate, err := assignmentRepo.Get(ctx, command.AssignmentID())
	if err != nil {
		return err
	}

	claimer, err := courierRepo.Get(ctx, command.CourierID())
	if err != nil {
		return err
	}

	subOrder, err := subOrderRepo.Get(ctx, aggregate.SubOrderID())
	if err != nil {
		return err
	}

	distanceKm, err := claimer.DistanceKmTo(subOrder.DeliveryPoint())
	if err != nil {
		return err
	}

	if err = aggregate.Claim(claimer.ID(), distanceKm, h.ratePerKm, time.Now().UTC()); err != nil {
		return err
	}

	// Conditional on the stored status: a concurrent claim or expiry sweep
	// that committed first surfaces here as a conflict.
	if err = assignmentRepo.Update(ctx, aggregate, assignment.Broadcast); err != nil {
		return err
	}

	if err = subOrder.MarkOutForDelivery(); err != nil {
		return err
	}

	if err = subOrderRepo.Update(ctx, subOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
