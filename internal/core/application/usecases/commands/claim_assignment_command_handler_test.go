package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

func newClaimFixture(t *testing.T, broadcastTo ...kernel.UUID) (*assignment.Assignment, *order.SubOrder) {
	t.Helper()

	point, err := kernel.NewGeoPoint(28.61, 77.23)
	require.NoError(t, err)

	subOrder, err := order.NewSubOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), point, "")
	require.NoError(t, err)

	aggregate, err := assignment.NewAssignment(
		kernel.NewUUID(), subOrder.OrderID(), subOrder.ShopID(), subOrder.ID(),
		broadcastTo, 1, time.Now())
	require.NoError(t, err)

	require.NoError(t, subOrder.LinkAssignment(aggregate.ID()))
	return aggregate, subOrder
}

func newClaimCourier(t *testing.T) *courier.Courier {
	t.Helper()

	location, err := kernel.NewGeoPoint(28.65, 77.25)
	require.NoError(t, err)

	c, err := courier.NewCourier(kernel.NewUUID(), "rider", location, time.Now(), courier.NewWallet(time.Now()))
	require.NoError(t, err)
	return c
}

func newClaimHandler(t *testing.T, factory commands.UoWFactory) commands.ClaimAssignmentCommandHandler {
	t.Helper()

	h, err := commands.NewClaimAssignmentCommandHandler(factory, 8)
	require.NoError(t, err)
	return h
}

func TestClaimAssignmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	claimer := newClaimCourier(t)
	aggregate, subOrder := newClaimFixture(t, claimer.ID())

	assignmentRepo := new(MockAssignmentRepository)
	assignmentRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	assignmentRepo.On("Update", ctx, aggregate, assignment.Broadcast).Return(nil).Once()

	courierRepo := new(MockCourierRepository)
	courierRepo.On("Get", ctx, claimer.ID()).Return(claimer, nil).Once()

	subOrderRepo := new(MockSubOrderRepository)
	subOrderRepo.On("Get", ctx, subOrder.ID()).Return(subOrder, nil).Once()
	subOrderRepo.On("Update", ctx, subOrder).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("SubOrderRepository").Return(subOrderRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewClaimAssignmentCommand(aggregate.ID(), claimer.ID())
	require.NoError(t, err)

	h := newClaimHandler(t, factory)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, assignment.Assigned, aggregate.Status())
	require.NotNil(t, aggregate.AssignedCourier())
	assert.True(t, aggregate.AssignedCourier().IsEqual(claimer.ID()))
	assert.NotNil(t, aggregate.AcceptedAt())
	assert.Greater(t, aggregate.FeeAmount(), 0.0)
	assert.InDelta(t, aggregate.DistanceKm()*8, aggregate.FeeAmount(), 0.001)
	assert.Equal(t, order.OutForDelivery, subOrder.Status())

	assignmentRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestClaimAssignmentCommandHandler_Handle_NotInBroadcastSet(t *testing.T) {
	ctx := t.Context()
	offered := newClaimCourier(t)
	outsider := newClaimCourier(t)
	aggregate, subOrder := newClaimFixture(t, offered.ID())

	assignmentRepo := new(MockAssignmentRepository)
	assignmentRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()

	courierRepo := new(MockCourierRepository)
	courierRepo.On("Get", ctx, outsider.ID()).Return(outsider, nil).Once()

	subOrderRepo := new(MockSubOrderRepository)
	subOrderRepo.On("Get", ctx, subOrder.ID()).Return(subOrder, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("SubOrderRepository").Return(subOrderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewClaimAssignmentCommand(aggregate.ID(), outsider.ID())
	require.NoError(t, err)

	h := newClaimHandler(t, factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
	assert.Equal(t, assignment.Broadcast, aggregate.Status())
}

func TestClaimAssignmentCommandHandler_Handle_StoreConflict(t *testing.T) {
	ctx := t.Context()
	claimer := newClaimCourier(t)
	aggregate, subOrder := newClaimFixture(t, claimer.ID())

	assignmentRepo := new(MockAssignmentRepository)
	assignmentRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	assignmentRepo.On("Update", ctx, aggregate, assignment.Broadcast).
		Return(errs.NewConflictError("assignment status", assignment.Assigned.String())).Once()

	courierRepo := new(MockCourierRepository)
	courierRepo.On("Get", ctx, claimer.ID()).Return(claimer, nil).Once()

	subOrderRepo := new(MockSubOrderRepository)
	subOrderRepo.On("Get", ctx, subOrder.ID()).Return(subOrder, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("SubOrderRepository").Return(subOrderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewClaimAssignmentCommand(aggregate.ID(), claimer.ID())
	require.NoError(t, err)

	h := newClaimHandler(t, factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

// raceStore is an in-memory store with the same compare-and-set contract the
// postgres repository implements. It backs the concurrent claim test below.
type raceStore struct {
	mu sync.Mutex

	assignment *assignment.Assignment
	subOrder   *order.SubOrder
	couriers   map[string]*courier.Courier
}

type raceUoW struct{ store *raceStore }

func (u *raceUoW) Begin(context.Context) error                      { return nil }
func (u *raceUoW) Commit(context.Context) error                     { return nil }
func (u *raceUoW) Rollback(context.Context) error                   { return nil }
func (u *raceUoW) AssignmentRepository() ports.AssignmentRepository { return &raceAssignmentRepo{u.store} }
func (u *raceUoW) CourierRepository() ports.CourierRepository       { return &raceCourierRepo{u.store} }
func (u *raceUoW) SubOrderRepository() ports.SubOrderRepository     { return &raceSubOrderRepo{u.store} }

type raceUoWFactory struct{ store *raceStore }

func (f *raceUoWFactory) Create() commands.UoW { return &raceUoW{store: f.store} }

type raceAssignmentRepo struct{ store *raceStore }

func (r *raceAssignmentRepo) Add(context.Context, *assignment.Assignment) error { return nil }

func (r *raceAssignmentRepo) Update(
	_ context.Context, a *assignment.Assignment, expected assignment.Status,
) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.assignment.Status() != expected {
		return errs.NewConflictError("assignment status", r.store.assignment.Status().String())
	}

	r.store.assignment = a
	return nil
}

func (r *raceAssignmentRepo) Get(_ context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a := r.store.assignment
	return assignment.RestoreAssignment(
		a.ID(), a.OrderID(), a.ShopID(), a.SubOrderID(), a.BroadcastSet(),
		a.AssignedCourier(), a.Status(), a.Attempt(), a.DistanceKm(), a.FeeAmount(),
		a.PenaltyApplied(), a.EarningsSettled(), a.CreatedAt(), a.AcceptedAt())
}

func (r *raceAssignmentRepo) GetBusyCourierIDs(context.Context) ([]kernel.UUID, error) {
	return nil, nil
}

func (r *raceAssignmentRepo) GetAllBroadcastBefore(context.Context, time.Time) ([]*assignment.Assignment, error) {
	return nil, nil
}

type raceCourierRepo struct{ store *raceStore }

func (r *raceCourierRepo) Add(context.Context, *courier.Courier) error    { return nil }
func (r *raceCourierRepo) Update(context.Context, *courier.Courier) error { return nil }

func (r *raceCourierRepo) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.couriers[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courier", id.String())
	}
	return c, nil
}

func (r *raceCourierRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	return r.Get(ctx, id)
}

func (r *raceCourierRepo) GetAllNear(
	context.Context, kernel.GeoPoint, float64, time.Time,
) ([]*courier.Courier, error) {
	return nil, nil
}

type raceSubOrderRepo struct{ store *raceStore }

func (r *raceSubOrderRepo) Add(context.Context, *order.SubOrder, kernel.UUID) error { return nil }
func (r *raceSubOrderRepo) Update(context.Context, *order.SubOrder) error { return nil }

func (r *raceSubOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.SubOrder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	so := r.store.subOrder
	return order.RestoreSubOrder(
		so.ID(), so.OrderID(), so.ShopID(), so.DeliveryPoint(),
		so.Status(), so.Attempt(), so.AssignmentID(), "")
}

func (r *raceSubOrderRepo) GetShopOwnerID(_ context.Context, _ kernel.UUID) (kernel.UUID, error) {
	return kernel.NewUUID(), nil
}

func TestClaimAssignmentCommandHandler_Handle_ConcurrentClaims(t *testing.T) {
	first := newClaimCourier(t)
	second := newClaimCourier(t)
	aggregate, subOrder := newClaimFixture(t, first.ID(), second.ID())

	store := &raceStore{
		assignment: aggregate,
		subOrder:   subOrder,
		couriers: map[string]*courier.Courier{
			first.ID().String():  first,
			second.ID().String(): second,
		},
	}

	h := newClaimHandler(t, &raceUoWFactory{store: store})

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, claimer := range []*courier.Courier{first, second} {
		wg.Add(1)
		go func(c *courier.Courier) {
			defer wg.Done()

			cmd, err := commands.NewClaimAssignmentCommand(aggregate.ID(), c.ID())
			if err != nil {
				results <- err
				return
			}
			results <- h.Handle(context.Background(), cmd)
		}(claimer)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, errs.ErrConflict)
			conflicts++
		}
	}

	assert.Equal(t, 1, wins, "exactly one claim must win")
	assert.Equal(t, 1, conflicts, "the losing claim must observe a conflict")
	assert.Equal(t, assignment.Assigned, store.assignment.Status())
	require.NotNil(t, store.assignment.AssignedCourier())
}
