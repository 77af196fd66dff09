package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ReportLocationCommandHandler records courier position reports, refreshing
// both the stored location and the activity timestamp.
type ReportLocationCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewReportLocationCommandHandler creates a handler for location reports.
func NewReportLocationCommandHandler(uowFactory CourierUoWFactory) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the location report command.
func (h ReportLocationCommandHandler) Handle(ctx context.Context, command ReportLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	location, err := kernel.NewGeoPoint(command.Latitude(), command.Longitude())
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

	courierRepo := uow.CourierRepository()

	// Locked read: Update saves the whole row, so reading the wallet stale
	// here could clobber a concurrent credit or debit.
	aggregate, err := courierRepo.GetForUpdate(ctx, command.CourierID())
	if err != nil {
		return err
	}

	if err = aggregate.ReportLocation(location, time.Now().UTC()); err != nil {
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
