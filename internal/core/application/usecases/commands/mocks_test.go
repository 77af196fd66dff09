package commands_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Update(
	ctx context.Context, a *assignment.Assignment, expected assignment.Status,
) error {
	args := m.Called(ctx, a, expected)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetBusyCourierIDs(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockAssignmentRepository) GetAllBroadcastBefore(
	ctx context.Context, cutoff time.Time,
) ([]*assignment.Assignment, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllNear(
	ctx context.Context, center kernel.GeoPoint, radiusKm float64, activeSince time.Time,
) ([]*courier.Courier, error) {
	args := m.Called(ctx, center, radiusKm, activeSince)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockSubOrderRepository struct{ mock.Mock }

func (m *MockSubOrderRepository) Add(ctx context.Context, so *order.SubOrder, shopOwnerID kernel.UUID) error {
	args := m.Called(ctx, so, shopOwnerID)
	return args.Error(0)
}

func (m *MockSubOrderRepository) Update(ctx context.Context, so *order.SubOrder) error {
	args := m.Called(ctx, so)
	return args.Error(0)
}

func (m *MockSubOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.SubOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.SubOrder), args.Error(1)
}

func (m *MockSubOrderRepository) GetShopOwnerID(ctx context.Context, shopID kernel.UUID) (kernel.UUID, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return kernel.UUID{}, args.Error(1)
	}
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) SubOrderRepository() ports.SubOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.SubOrderRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockSweepUoWFactory struct{ mock.Mock }

func (m *MockSweepUoWFactory) Create() commands.SweepUoW {
	args := m.Called()
	return args.Get(0).(commands.SweepUoW)
}
