package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrWithdrawCommandIsNotConstructed = errors.New(
		"WithdrawCommand must be created via NewWithdrawCommand constructor",
	)
	ErrWithdrawAmountIsInvalid = errors.New("withdraw amount must be greater than 0")
)

// WithdrawCommand represents a courier requesting a payout from their wallet
// balance.
//
// Example:
//
//	cmd, err := NewWithdrawCommand(courierID, 250)
//	if err != nil {
//	    return fmt.Errorf("invalid withdraw request: %w", err)
//	}
//
//	handler := NewWithdrawCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("withdraw failed: %w", err)
//	}
type WithdrawCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	amount    float64

	guard guard.ConstructorGuard
}

// NewWithdrawCommand creates a command to debit a payout from a courier wallet.
func NewWithdrawCommand(courierID kernel.UUID, amount float64) (WithdrawCommand, error) {
	command := WithdrawCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(courierID),
		command.setAmount(amount),
	); err != nil {
		return WithdrawCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c WithdrawCommand) Validate() error {
	return c.guard.Validate(ErrWithdrawCommandIsNotConstructed)
}

// CourierID returns the courier requesting the payout.
func (c WithdrawCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Amount returns the requested payout amount.
func (c WithdrawCommand) Amount() float64 {
	return c.amount
}

func (c *WithdrawCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *WithdrawCommand) setAmount(amount float64) error {
	if amount <= 0 {
		return ErrWithdrawAmountIsInvalid
	}

	c.amount = amount
	return nil
}
