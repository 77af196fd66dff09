package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrClaimAssignmentCommandIsNotConstructed = errors.New(
	"ClaimAssignmentCommand must be created via NewClaimAssignmentCommand constructor",
)

// ClaimAssignmentCommand represents a courier accepting a broadcast offer.
// Only couriers in the assignment's broadcast set may claim it, and only the
// first claim wins.
//
// Example:
//
//	cmd, err := NewClaimAssignmentCommand(assignmentID, courierID)
//	if err != nil {
//	    return fmt.Errorf("invalid claim request: %w", err)
//	}
//
//	handler, _ := NewClaimAssignmentCommandHandler(uowFactory, 8)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("claim failed: %w", err)
//	}
type ClaimAssignmentCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID
	courierID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimAssignmentCommand creates a command for a courier to claim an offer.
func NewClaimAssignmentCommand(assignmentID, courierID kernel.UUID) (ClaimAssignmentCommand, error) {
	command := ClaimAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setAssignmentID(assignmentID),
		command.setCourierID(courierID),
	); err != nil {
		return ClaimAssignmentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrClaimAssignmentCommandIsNotConstructed)
}

// AssignmentID returns the assignment being claimed.
func (c ClaimAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// CourierID returns the claiming courier.
func (c ClaimAssignmentCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *ClaimAssignmentCommand) setAssignmentID(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	c.assignmentID = assignmentID
	return nil
}

func (c *ClaimAssignmentCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
