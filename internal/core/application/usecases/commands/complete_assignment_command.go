package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCompleteAssignmentCommandIsNotConstructed = errors.New(
	"CompleteAssignmentCommand must be created via NewCompleteAssignmentCommand constructor",
)

// CompleteAssignmentCommand represents the assigned courier confirming
// delivery. deliveryCode is the one-time confirmation code handed to the
// customer at order placement; it may be empty when the sub-order was placed
// without one.
//
// Example:
//
//	cmd, err := NewCompleteAssignmentCommand(assignmentID, courierID, "4812")
//	if err != nil {
//	    return fmt.Errorf("invalid completion request: %w", err)
//	}
//
//	handler := NewCompleteAssignmentCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("completion failed: %w", err)
//	}
type CompleteAssignmentCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID
	courierID    kernel.UUID
	deliveryCode string

	guard guard.ConstructorGuard
}

// NewCompleteAssignmentCommand creates a command for the assigned courier to
// confirm delivery.
func NewCompleteAssignmentCommand(
	assignmentID, courierID kernel.UUID, deliveryCode string,
) (CompleteAssignmentCommand, error) {
	command := CompleteAssignmentCommand{
		deliveryCode: deliveryCode,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setAssignmentID(assignmentID),
		command.setCourierID(courierID),
	); err != nil {
		return CompleteAssignmentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrCompleteAssignmentCommandIsNotConstructed)
}

// AssignmentID returns the assignment being completed.
func (c CompleteAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// CourierID returns the courier confirming delivery.
func (c CompleteAssignmentCommand) CourierID() kernel.UUID {
	return c.courierID
}

// DeliveryCode returns the confirmation code supplied by the courier.
func (c CompleteAssignmentCommand) DeliveryCode() string {
	return c.deliveryCode
}

func (c *CompleteAssignmentCommand) setAssignmentID(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	c.assignmentID = assignmentID
	return nil
}

func (c *CompleteAssignmentCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
