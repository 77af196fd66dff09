package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

func TestRegisterCourierCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()

	courierRepo := new(MockCourierRepository)
	courierRepo.On("Add", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewRegisterCourierCommand(courierID, "Ravi", 28.61, 77.23)
	require.NoError(t, err)

	h := commands.NewRegisterCourierCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	added := courierRepo.Calls[0].Arguments.Get(1).(*courier.Courier)
	assert.True(t, added.ID().IsEqual(courierID))
	assert.Equal(t, "Ravi", added.Name())
	assert.Zero(t, added.Wallet().Balance())

	courierRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRegisterCourierCommandHandler_Handle_InvalidCoordinates(t *testing.T) {
	cmd, err := commands.NewRegisterCourierCommand(kernel.NewUUID(), "Ravi", 95, 77.23)
	require.NoError(t, err)

	factory := new(MockCourierUoWFactory)
	h := commands.NewRegisterCourierCommandHandler(factory)

	err = h.Handle(t.Context(), cmd)
	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestNewRegisterCourierCommand_Validation(t *testing.T) {
	_, err := commands.NewRegisterCourierCommand(kernel.UUID{}, "Ravi", 28.61, 77.23)
	require.Error(t, err)

	_, err = commands.NewRegisterCourierCommand(kernel.NewUUID(), "", 28.61, 77.23)
	require.ErrorIs(t, err, commands.ErrCourierNameIsRequired)
}
