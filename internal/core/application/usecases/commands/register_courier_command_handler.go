package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// RegisterCourierCommandHandler persists new couriers. The starting position
// doubles as the first location report, so a freshly registered courier is
// immediately eligible for broadcasts.
type RegisterCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewRegisterCourierCommandHandler creates a handler for courier registration.
func NewRegisterCourierCommandHandler(uowFactory CourierUoWFactory) RegisterCourierCommandHandler {
	return RegisterCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration command.
func (h RegisterCourierCommandHandler) Handle(ctx context.Context, command RegisterCourierCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	location, err := kernel.NewGeoPoint(command.Latitude(), command.Longitude())
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	aggregate, err := courier.NewCourier(
		command.CourierID(), command.Name(), location, now, courier.NewWallet(now))
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
