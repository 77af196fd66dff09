package commands

import (
	"context"
)

// WithdrawCommandHandler debits payout requests from courier wallets.
// Requests exceeding the balance are rejected; the wallet row is read and
// written inside one transaction so concurrent debits serialize per courier.
type WithdrawCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewWithdrawCommandHandler creates a handler for payout operations.
func NewWithdrawCommandHandler(uowFactory CourierUoWFactory) WithdrawCommandHandler {
	return WithdrawCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the withdraw command.
func (h WithdrawCommandHandler) Handle(ctx context.Context, command WithdrawCommand) error {
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

	courierRepo := uow.CourierRepository()

	// Locked read so the debit serializes with concurrent wallet writers.
	aggregate, err := courierRepo.GetForUpdate(ctx, command.CourierID())
	if err != nil {
		return err
	}

	if err = aggregate.Withdraw(command.Amount()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
