package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRegisterCourierCommandIsNotConstructed = errors.New(
		"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
	)
	ErrCourierNameIsRequired = errors.New("courier name is required")
)

// RegisterCourierCommand represents a request to register a new courier with
// a starting position and an empty wallet.
//
// Example:
//
//	courierID := kernel.NewUUID()
//	cmd, err := NewRegisterCourierCommand(courierID, "Ravi", 28.61, 77.23)
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
//
//	handler := NewRegisterCourierCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to register courier: %w", err)
//	}
type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	latitude  float64
	longitude float64

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand creates a command to register a courier.
// The coordinates are validated later when the GeoPoint is constructed.
func NewRegisterCourierCommand(
	courierID kernel.UUID, name string, latitude, longitude float64,
) (RegisterCourierCommand, error) {
	command := RegisterCourierCommand{
		latitude:  latitude,
		longitude: longitude,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(courierID),
		command.setName(name),
	); err != nil {
		return RegisterCourierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

// CourierID returns the new courier's identifier.
func (c RegisterCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the courier's display name.
func (c RegisterCourierCommand) Name() string {
	return c.name
}

// Latitude returns the starting latitude.
func (c RegisterCourierCommand) Latitude() float64 {
	return c.latitude
}

// Longitude returns the starting longitude.
func (c RegisterCourierCommand) Longitude() float64 {
	return c.longitude
}

func (c *RegisterCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *RegisterCourierCommand) setName(name string) error {
	if name == "" {
		return ErrCourierNameIsRequired
	}

	c.name = name
	return nil
}
