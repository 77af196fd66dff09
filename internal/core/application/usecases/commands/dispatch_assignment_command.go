package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDispatchAssignmentCommandIsNotConstructed = errors.New(
	"DispatchAssignmentCommand must be created via NewDispatchAssignmentCommand constructor",
)

// DispatchAssignmentCommand requests a courier broadcast for a sub-order.
// The caller must be the owner of the shop the sub-order belongs to; the
// handler builds the broadcast set from couriers near the delivery point.
//
// Example:
//
//	cmd, err := NewDispatchAssignmentCommand(subOrderID, callerID)
//	if err != nil {
//	    return fmt.Errorf("invalid dispatch request: %w", err)
//	}
//
//	handler := NewDispatchAssignmentCommandHandler(uowFactory, policy)
//	assignmentID, err := handler.Handle(ctx, cmd)
type DispatchAssignmentCommand struct { //nolint:recvcheck //using for validation
	subOrderID kernel.UUID
	callerID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewDispatchAssignmentCommand creates a command to broadcast a sub-order to
// nearby couriers. callerID identifies the account requesting the dispatch.
func NewDispatchAssignmentCommand(subOrderID, callerID kernel.UUID) (DispatchAssignmentCommand, error) {
	command := DispatchAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setSubOrderID(subOrderID),
		command.setCallerID(callerID),
	); err != nil {
		return DispatchAssignmentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrDispatchAssignmentCommandIsNotConstructed)
}

// SubOrderID returns the sub-order to dispatch.
func (c DispatchAssignmentCommand) SubOrderID() kernel.UUID {
	return c.subOrderID
}

// CallerID returns the account requesting the dispatch.
func (c DispatchAssignmentCommand) CallerID() kernel.UUID {
	return c.callerID
}

func (c *DispatchAssignmentCommand) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return err
	}

	c.subOrderID = subOrderID
	return nil
}

func (c *DispatchAssignmentCommand) setCallerID(callerID kernel.UUID) error {
	if err := callerID.Validate(); err != nil {
		return err
	}

	c.callerID = callerID
	return nil
}
