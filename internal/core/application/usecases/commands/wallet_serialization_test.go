package commands_test

import (
	"context"
	"errors"
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

// walletDB is an in-memory double for the wallet serialization test. It
// models the one property the handlers rely on: a locked courier read holds
// the row until the transaction ends, so two transactions mutating the same
// wallet run one after the other instead of both starting from the same
// snapshot.
type walletDB struct {
	mu          sync.Mutex
	courierRow  sync.Mutex
	rider       *courier.Courier
	assignments map[string]*assignment.Assignment
	subOrder    *order.SubOrder
}

func (db *walletDB) snapshotCourier() (*courier.Courier, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	c := db.rider
	w, err := courier.RestoreWallet(
		c.Wallet().Balance(), c.Wallet().TotalEarnings(),
		c.Wallet().TodayEarnings(), c.Wallet().EarningsResetDate())
	if err != nil {
		return nil, err
	}
	return courier.NewCourier(c.ID(), c.Name(), c.Location(), c.LastActiveAt(), w)
}

func (db *walletDB) snapshotAssignment(id kernel.UUID) (*assignment.Assignment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	a, ok := db.assignments[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("assignment", id.String())
	}
	return assignment.RestoreAssignment(
		a.ID(), a.OrderID(), a.ShopID(), a.SubOrderID(), a.BroadcastSet(),
		a.AssignedCourier(), a.Status(), a.Attempt(), a.DistanceKm(), a.FeeAmount(),
		a.PenaltyApplied(), a.EarningsSettled(), a.CreatedAt(), a.AcceptedAt())
}

type walletUoW struct {
	db       *walletDB
	holdsRow bool
}

func (u *walletUoW) Begin(context.Context) error { return nil }

func (u *walletUoW) Commit(context.Context) error {
	u.releaseRow()
	return nil
}

func (u *walletUoW) Rollback(context.Context) error {
	u.releaseRow()
	return nil
}

func (u *walletUoW) releaseRow() {
	if u.holdsRow {
		u.holdsRow = false
		u.db.courierRow.Unlock()
	}
}

func (u *walletUoW) AssignmentRepository() ports.AssignmentRepository {
	return &walletAssignmentRepo{uow: u}
}

func (u *walletUoW) CourierRepository() ports.CourierRepository {
	return &walletCourierRepo{uow: u}
}

func (u *walletUoW) SubOrderRepository() ports.SubOrderRepository {
	return &walletSubOrderRepo{uow: u}
}

type walletUoWFactory struct{ db *walletDB }

func (f *walletUoWFactory) Create() commands.UoW { return &walletUoW{db: f.db} }

type walletSweepUoWFactory struct{ db *walletDB }

func (f *walletSweepUoWFactory) Create() commands.SweepUoW { return &walletUoW{db: f.db} }

type walletCourierRepo struct{ uow *walletUoW }

func (r *walletCourierRepo) Add(context.Context, *courier.Courier) error { return nil }

func (r *walletCourierRepo) Get(context.Context, kernel.UUID) (*courier.Courier, error) {
	return r.uow.db.snapshotCourier()
}

func (r *walletCourierRepo) GetForUpdate(context.Context, kernel.UUID) (*courier.Courier, error) {
	r.uow.db.courierRow.Lock()
	r.uow.holdsRow = true
	return r.uow.db.snapshotCourier()
}

// Update refuses a write that did not come from a locked read. A handler
// saving a courier it read through plain Get would overwrite whatever a
// concurrent transaction committed in between.
func (r *walletCourierRepo) Update(_ context.Context, c *courier.Courier) error {
	if !r.uow.holdsRow {
		return errors.New("courier row updated without a locked read")
	}

	r.uow.db.mu.Lock()
	defer r.uow.db.mu.Unlock()
	r.uow.db.rider = c
	return nil
}

func (r *walletCourierRepo) GetAllNear(
	context.Context, kernel.GeoPoint, float64, time.Time,
) ([]*courier.Courier, error) {
	return nil, nil
}

type walletAssignmentRepo struct{ uow *walletUoW }

func (r *walletAssignmentRepo) Add(context.Context, *assignment.Assignment) error { return nil }

func (r *walletAssignmentRepo) Get(_ context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	return r.uow.db.snapshotAssignment(id)
}

func (r *walletAssignmentRepo) Update(
	_ context.Context, a *assignment.Assignment, expected assignment.Status,
) error {
	db := r.uow.db
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, ok := db.assignments[a.ID().String()]
	if !ok {
		return errs.NewObjectNotFoundError("assignment", a.ID().String())
	}
	if stored.Status() != expected {
		return errs.NewConflictError("assignment status", stored.Status().String())
	}

	db.assignments[a.ID().String()] = a
	return nil
}

func (r *walletAssignmentRepo) GetBusyCourierIDs(context.Context) ([]kernel.UUID, error) {
	return nil, nil
}

func (r *walletAssignmentRepo) GetAllBroadcastBefore(
	_ context.Context, cutoff time.Time,
) ([]*assignment.Assignment, error) {
	db := r.uow.db
	db.mu.Lock()
	ids := make([]kernel.UUID, 0, len(db.assignments))
	for _, a := range db.assignments {
		if a.Status() == assignment.Broadcast && a.CreatedAt().Before(cutoff) {
			ids = append(ids, a.ID())
		}
	}
	db.mu.Unlock()

	stale := make([]*assignment.Assignment, 0, len(ids))
	for _, id := range ids {
		a, err := db.snapshotAssignment(id)
		if err != nil {
			return nil, err
		}
		stale = append(stale, a)
	}
	return stale, nil
}

type walletSubOrderRepo struct{ uow *walletUoW }

func (r *walletSubOrderRepo) Add(context.Context, *order.SubOrder, kernel.UUID) error { return nil }
func (r *walletSubOrderRepo) Update(context.Context, *order.SubOrder) error           { return nil }

func (r *walletSubOrderRepo) Get(_ context.Context, _ kernel.UUID) (*order.SubOrder, error) {
	db := r.uow.db
	db.mu.Lock()
	defer db.mu.Unlock()

	so := db.subOrder
	return order.RestoreSubOrder(
		so.ID(), so.OrderID(), so.ShopID(), so.DeliveryPoint(),
		so.Status(), so.Attempt(), so.AssignmentID(), "")
}

func (r *walletSubOrderRepo) GetShopOwnerID(context.Context, kernel.UUID) (kernel.UUID, error) {
	return kernel.NewUUID(), nil
}

// A completion crediting the fee and a sweep debiting the no-response
// penalty hit the same wallet at the same time. Both must land: from a
// balance of 100, a 50 credit and a 10 penalty end at 140, never at 90 or
// 150. 90 would mean the penalty transaction read the balance before the
// credit committed and then overwrote it.
func TestCourierWallet_ConcurrentCreditAndPenalty(t *testing.T) {
	location, err := kernel.NewGeoPoint(28.61, 77.23)
	require.NoError(t, err)

	rider, err := courier.NewCourier(kernel.NewUUID(), "rider", location, time.Now(), courier.NewWallet(time.Now()))
	require.NoError(t, err)
	require.NoError(t, rider.CreditEarnings(100, time.Now()))

	point, err := kernel.NewGeoPoint(28.64, 77.20)
	require.NoError(t, err)
	subOrder, err := order.NewSubOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), point, "")
	require.NoError(t, err)

	// Claimed by the rider at 6.25 km and 8 per km, so completion credits 50.
	claimed, err := assignment.NewAssignment(
		kernel.NewUUID(), subOrder.OrderID(), subOrder.ShopID(), subOrder.ID(),
		[]kernel.UUID{rider.ID()}, 1, time.Now())
	require.NoError(t, err)
	require.NoError(t, subOrder.LinkAssignment(claimed.ID()))
	require.NoError(t, claimed.Claim(rider.ID(), 6.25, 8, time.Now()))
	require.NoError(t, subOrder.MarkOutForDelivery())

	// A second, unanswered offer broadcast to the same rider, old enough for
	// the sweep to expire it and debit the penalty.
	unanswered := newStaleBroadcast(t, rider.ID())

	db := &walletDB{
		rider:    rider,
		subOrder: subOrder,
		assignments: map[string]*assignment.Assignment{
			claimed.ID().String():    claimed,
			unanswered.ID().String(): unanswered,
		},
	}

	completeHandler := commands.NewCompleteAssignmentCommandHandler(&walletUoWFactory{db: db})
	sweepHandler := newSweepHandler(t, &walletSweepUoWFactory{db: db})

	completeCmd, err := commands.NewCompleteAssignmentCommand(claimed.ID(), rider.ID(), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		results <- completeHandler.Handle(context.Background(), completeCmd)
	}()
	go func() {
		defer wg.Done()
		expired, err := sweepHandler.Handle(context.Background(), commands.NewSweepExpiredCommand())
		if err == nil && expired != 1 {
			err = errors.New("sweep expired nothing")
		}
		results <- err
	}()
	wg.Wait()
	close(results)

	for err := range results {
		require.NoError(t, err)
	}

	final := db.rider
	assert.InDelta(t, 140, final.Wallet().Balance(), 0.001,
		"both the credit and the penalty must land")
	assert.InDelta(t, 150, final.Wallet().TotalEarnings(), 0.001,
		"the penalty must not touch earnings")

	assert.Equal(t, assignment.Completed, db.assignments[claimed.ID().String()].Status())
	assert.True(t, db.assignments[claimed.ID().String()].EarningsSettled())
	assert.Equal(t, assignment.Expired, db.assignments[unanswered.ID().String()].Status())
	assert.True(t, db.assignments[unanswered.ID().String()].PenaltyApplied())
}
