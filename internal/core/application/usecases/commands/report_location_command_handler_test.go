package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func TestReportLocationCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	rider := newSweepCourier(t, 0)
	before := rider.LastActiveAt()

	courierRepo := new(MockCourierRepository)
	courierRepo.On("GetForUpdate", ctx, rider.ID()).Return(rider, nil).Once()
	courierRepo.On("Update", ctx, rider).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewReportLocationCommand(rider.ID(), 28.70, 77.10)
	require.NoError(t, err)

	h := commands.NewReportLocationCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.InDelta(t, 28.70, rider.Location().Latitude(), 0.0001)
	assert.InDelta(t, 77.10, rider.Location().Longitude(), 0.0001)
	assert.False(t, rider.LastActiveAt().Before(before))

	courierRepo.AssertExpectations(t)
}

func TestReportLocationCommandHandler_Handle_UnknownCourier(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()

	courierRepo := new(MockCourierRepository)
	courierRepo.On("GetForUpdate", ctx, courierID).
		Return(nil, errs.NewObjectNotFoundError("courier", courierID.String())).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewReportLocationCommand(courierID, 28.70, 77.10)
	require.NoError(t, err)

	h := commands.NewReportLocationCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestReportLocationCommandHandler_Handle_InvalidCoordinates(t *testing.T) {
	cmd, err := commands.NewReportLocationCommand(kernel.NewUUID(), 28.70, 200)
	require.NoError(t, err)

	factory := new(MockCourierUoWFactory)
	h := commands.NewReportLocationCommandHandler(factory)

	err = h.Handle(t.Context(), cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	factory.AssertNotCalled(t, "Create")
}

func TestNewReportLocationCommand_Validation(t *testing.T) {
	_, err := commands.NewReportLocationCommand(kernel.UUID{}, 28.70, 77.10)
	require.Error(t, err)

	cmd := commands.ReportLocationCommand{}
	require.ErrorIs(t, cmd.Validate(), commands.ErrReportLocationCommandIsNotConstructed)
}
