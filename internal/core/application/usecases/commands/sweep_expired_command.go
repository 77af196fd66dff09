package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrSweepExpiredCommandIsNotConstructed = errors.New(
	"SweepExpiredCommand must be created via NewSweepExpiredCommand constructor",
)

// SweepExpiredCommand triggers one pass of the broadcast expiry sweep.
// The sweep retires offers nobody claimed within the expiry window and
// penalizes every courier that ignored them.
//
// Example:
//
//	cmd := NewSweepExpiredCommand()
//	handler, _ := NewSweepExpiredCommandHandler(uowFactory, 3*time.Minute, 10)
//	expired, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    log.Printf("sweep failed: %v", err)
//	}
type SweepExpiredCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepExpiredCommand creates a new command to trigger the expiry sweep.
// This is a parameterless command; the window and penalty live on the handler.
func NewSweepExpiredCommand() SweepExpiredCommand {
	return SweepExpiredCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *SweepExpiredCommand) Validate() error {
	return c.guard.Validate(ErrSweepExpiredCommandIsNotConstructed)
}
