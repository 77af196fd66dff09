package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/pkg/errs"
)

var (
	ErrExpiryWindowIsInvalid  = errors.New("expiry window must be greater than 0")
	ErrPenaltyAmountIsInvalid = errors.New("penalty amount must not be negative")
)

// SweepExpiredCommandHandler retires broadcast offers that outlived the
// expiry window. Each stale assignment flips to Expired with its penalty flag
// set in a single conditional update, then every courier in its broadcast set
// is debited the no-response penalty with the balance floored at zero.
//
// A claim racing the sweep is resolved by the conditional update: if the
// claim committed first the sweep sees a conflict and leaves the assignment
// alone, so no assignment ends up both assigned and penalized. Each
// assignment is processed in its own transaction; a failing row is logged
// and skipped so one bad row cannot stall the whole sweep.
type SweepExpiredCommandHandler struct {
	uowFactory    SweepUoWFactory
	expiryWindow  time.Duration
	penaltyAmount float64
	logger        *slog.Logger
}

// NewSweepExpiredCommandHandler creates a handler for expiry sweep operations.
func NewSweepExpiredCommandHandler(
	uowFactory SweepUoWFactory,
	expiryWindow time.Duration,
	penaltyAmount float64,
	logger *slog.Logger,
) (SweepExpiredCommandHandler, error) {
	if expiryWindow <= 0 {
		return SweepExpiredCommandHandler{}, ErrExpiryWindowIsInvalid
	}
	if penaltyAmount < 0 {
		return SweepExpiredCommandHandler{}, ErrPenaltyAmountIsInvalid
	}
	if logger == nil {
		logger = slog.Default()
	}

	return SweepExpiredCommandHandler{
		uowFactory:    uowFactory,
		expiryWindow:  expiryWindow,
		penaltyAmount: penaltyAmount,
		logger:        logger,
	}, nil
}

// Handle runs one sweep pass and returns the number of assignments expired.
func (h SweepExpiredCommandHandler) Handle(ctx context.Context, command SweepExpiredCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	stale, err := h.findStale(ctx)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, aggregate := range stale {
		if err := h.expireOne(ctx, aggregate); err != nil {
			if errors.Is(err, errs.ErrConflict) {
				// A claim won the race for this assignment.
				continue
			}

			h.logger.Warn("failed to expire assignment",
				"assignment_id", aggregate.ID().String(),
				"error", err)
			continue
		}
		expired++
	}

	return expired, nil
}

// findStale reads the broadcast assignments older than the expiry window.
func (h SweepExpiredCommandHandler) findStale(ctx context.Context) ([]*assignment.Assignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := time.Now().UTC().Add(-h.expiryWindow)
	stale, err := uow.AssignmentRepository().GetAllBroadcastBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return stale, nil
}

// expireOne flips a single assignment to Expired and debits its broadcast
// set, all in one transaction.
func (h SweepExpiredCommandHandler) expireOne(ctx context.Context, aggregate *assignment.Assignment) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := aggregate.Expire(); err != nil {
		return err
	}

	if err := aggregate.MarkPenaltyApplied(); err != nil {
		return err
	}

	// Conditional on the stored status still being Broadcast.
	if err := uow.AssignmentRepository().Update(ctx, aggregate, assignment.Broadcast); err != nil {
		return err
	}

	if h.penaltyAmount > 0 {
		if err := h.penalizeBroadcastSet(ctx, uow, aggregate); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

// penalizeBroadcastSet debits the no-response penalty from every courier the
// assignment was offered to.
func (h SweepExpiredCommandHandler) penalizeBroadcastSet(
	ctx context.Context, uow SweepUoW, aggregate *assignment.Assignment,
) error {
	courierRepo := uow.CourierRepository()

	for _, courierID := range aggregate.BroadcastSet() {
		// Locked read so the debit serializes with concurrent credits and
		// withdrawals against the same courier.
		courierAggregate, err := courierRepo.GetForUpdate(ctx, courierID)
		if err != nil {
			return err
		}

		if err = courierAggregate.ApplyPenalty(h.penaltyAmount); err != nil {
			return err
		}

		if err = courierRepo.Update(ctx, courierAggregate); err != nil {
			return err
		}
	}

	return nil
}
