package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
)

// CompleteAssignmentCommandHandler finalizes a delivery. Only the assigned
// courier may complete; when the sub-order carries a one-time confirmation
// code the supplied code must match. Completion and settlement commit in one
// transaction: the assignment flips to Completed with earningsSettled set,
// the fee is credited into the courier's wallet with the daily rollover
// applied, and the sub-order becomes delivered with its code cleared. The
// conditional status update makes a duplicate completion a conflict rather
// than a double credit.
//
// Example:
//
//	handler := NewCompleteAssignmentCommandHandler(uowFactory)
//	cmd, _ := NewCompleteAssignmentCommand(assignmentID, courierID, code)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrNotAuthorized):
//	    // Caller is not the assigned courier
//	case errors.Is(err, errs.ErrValueIsInvalid):
//	    // Wrong confirmation code
//	case errors.Is(err, errs.ErrConflict):
//	    // Already completed, or never claimed
//	}
type CompleteAssignmentCommandHandler struct {
	uowFactory UoWFactory
}

// NewCompleteAssignmentCommandHandler creates a handler for completion operations.
func NewCompleteAssignmentCommandHandler(uowFactory UoWFactory) CompleteAssignmentCommandHandler {
	return CompleteAssignmentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the completion command.
func (h CompleteAssignmentCommandHandler) Handle(ctx context.Context, command CompleteAssignmentCommand) error {
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

	subOrder, err := subOrderRepo.Get(ctx, aggregate.SubOrderID())
	if err != nil {
		return err
	}

	if err = subOrder.VerifyDeliveryCode(command.DeliveryCode()); err != nil {
		return err
	}

	if err = aggregate.Complete(command.CourierID()); err != nil {
		return err
	}

	fee := aggregate.FeeAmount()
	if fee > 0 {
		if err = aggregate.MarkEarningsSettled(); err != nil {
			return err
		}
	}

	// Conditional on the stored status: a duplicate completion that already
	// committed surfaces here as a conflict, keeping settlement exactly-once.
	if err = assignmentRepo.Update(ctx, aggregate, assignment.Assigned); err != nil {
		return err
	}

	if fee > 0 {
		// Locked read: a concurrent penalty or withdrawal against the same
		// courier waits for this transaction instead of overwriting the
		// credited balance.
		courierAggregate, err := courierRepo.GetForUpdate(ctx, command.CourierID())
		if err != nil {
			return err
		}

		if err = courierAggregate.CreditEarnings(fee, time.Now().UTC()); err != nil {
			return err
		}

		if err = courierRepo.Update(ctx, courierAggregate); err != nil {
			return err
		}
	}

	if err = subOrder.MarkDelivered(); err != nil {
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
