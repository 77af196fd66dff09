package assignment

import (
	"errors"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for assignment operations.
var (
	// ErrAssignmentIsNotConstructed is returned when using an improperly
	// initialized Assignment.
	ErrAssignmentIsNotConstructed = errors.New(
		"Assignment must be created via NewAssignment or RestoreAssignment constructors")
	// ErrRatePerKmIsRequired is returned when claiming with a non-positive
	// per-kilometer rate.
	ErrRatePerKmIsRequired = errs.NewValueIsRequiredError("rate per km")
)

// Assignment is the aggregate root for one dispatch of a shop's sub-order to
// couriers. It is created as a non-exclusive Broadcast to a fixed set of
// couriers, converted to an exclusive Assigned state by the first valid claim,
// and finishes as Completed or Expired. Assignments are never deleted; they
// remain as the audit trail of the dispatch.
//
// Invariants:
//   - assignedCourier is non-nil exactly when status is Assigned or Completed
//   - feeAmount > 0 only when a courier is assigned
//   - penaltyApplied becomes true only on the Expired path, once
//   - earningsSettled becomes true only when Completed, once
//   - createdAt is immutable; broadcastSet is fixed at creation
type Assignment struct {
	id         kernel.UUID
	orderID    kernel.UUID
	shopID     kernel.UUID
	subOrderID kernel.UUID

	broadcastSet    []kernel.UUID
	assignedCourier *kernel.UUID

	status  Status
	attempt int

	distanceKm float64
	feeAmount  float64

	penaltyApplied  bool
	earningsSettled bool

	createdAt  time.Time
	acceptedAt *time.Time

	guard guard.ConstructorGuard
}

// NewAssignment creates a fresh Broadcast assignment for the sub-order
// identified by (orderID, shopID, subOrderID), offered to broadcastTo.
//
// An empty broadcastTo is valid: the assignment simply waits in Broadcast
// until the sweep expires it or a later dispatch attempt replaces it.
// An attempt below 1 is normalized to 1, mirroring the sub-order's retry
// counter semantics.
func NewAssignment(
	id kernel.UUID,
	orderID kernel.UUID,
	shopID kernel.UUID,
	subOrderID kernel.UUID,
	broadcastTo []kernel.UUID,
	attempt int,
	createdAt time.Time,
) (*Assignment, error) {
	a := &Assignment{
		status:    Broadcast,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if attempt < 1 {
		attempt = 1
	}
	a.attempt = attempt

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setShopID(shopID),
		a.setSubOrderID(subOrderID),
		a.setBroadcastSet(broadcastTo),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAssignment reconstructs an Assignment from persistent storage,
// validating cross-field consistency (status/courier pairing, flag placement)
// so corrupted rows fail loudly at the boundary instead of deep in a handler.
func RestoreAssignment(
	id kernel.UUID,
	orderID kernel.UUID,
	shopID kernel.UUID,
	subOrderID kernel.UUID,
	broadcastTo []kernel.UUID,
	assignedCourier *kernel.UUID,
	status Status,
	attempt int,
	distanceKm float64,
	feeAmount float64,
	penaltyApplied bool,
	earningsSettled bool,
	createdAt time.Time,
	acceptedAt *time.Time,
) (*Assignment, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	if err := status.ValidateCanHaveCourier(assignedCourier != nil); err != nil {
		return nil, err
	}

	if feeAmount > 0 && assignedCourier == nil {
		return nil, errs.NewValueIsInvalidError("fee amount without assigned courier")
	}

	if penaltyApplied && status != Expired {
		return nil, errs.NewValueIsInvalidError("penalty applied outside Expired status")
	}

	if earningsSettled && status != Completed {
		return nil, errs.NewValueIsInvalidError("earnings settled outside Completed status")
	}

	if attempt < 1 {
		return nil, errs.NewValueIsOutOfRangeError("attempt", attempt, 1, math.MaxInt)
	}

	a := &Assignment{
		status:          status,
		attempt:         attempt,
		distanceKm:      distanceKm,
		feeAmount:       feeAmount,
		penaltyApplied:  penaltyApplied,
		earningsSettled: earningsSettled,
		createdAt:       createdAt,
		acceptedAt:      acceptedAt,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setShopID(shopID),
		a.setSubOrderID(subOrderID),
		a.setBroadcastSet(broadcastTo),
	); err != nil {
		return nil, err
	}

	if assignedCourier != nil {
		if err := assignedCourier.Validate(); err != nil {
			return nil, err
		}
		courierID := *assignedCourier
		a.assignedCourier = &courierID
	}

	return a, nil
}

// Validate checks that the Assignment was built through a constructor.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// IsEqual compares two assignments by identity.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the parent order's identifier.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// ShopID returns the shop whose sub-order is being delivered.
func (a *Assignment) ShopID() kernel.UUID {
	return a.shopID
}

// SubOrderID returns the sub-order this assignment delivers.
func (a *Assignment) SubOrderID() kernel.UUID {
	return a.subOrderID
}

// BroadcastSet returns a copy of the courier ids the offer was sent to.
func (a *Assignment) BroadcastSet() []kernel.UUID {
	out := make([]kernel.UUID, len(a.broadcastSet))
	copy(out, a.broadcastSet)
	return out
}

// AssignedCourier returns the claiming courier's id, or nil before a claim.
func (a *Assignment) AssignedCourier() *kernel.UUID {
	if a.assignedCourier == nil {
		return nil
	}
	courierID := *a.assignedCourier
	return &courierID
}

// Status returns the current lifecycle state.
func (a *Assignment) Status() Status {
	return a.status
}

// Attempt returns the re-broadcast cycle count, starting at 1.
func (a *Assignment) Attempt() int {
	return a.attempt
}

// DistanceKm returns the courier-to-delivery-point distance computed at claim
// time, zero before a claim.
func (a *Assignment) DistanceKm() float64 {
	return a.distanceKm
}

// FeeAmount returns the delivery fee computed at claim time, zero before a
// claim.
func (a *Assignment) FeeAmount() float64 {
	return a.feeAmount
}

// PenaltyApplied reports whether the no-response penalty was already applied.
func (a *Assignment) PenaltyApplied() bool {
	return a.penaltyApplied
}

// EarningsSettled reports whether the delivery fee was already credited.
func (a *Assignment) EarningsSettled() bool {
	return a.earningsSettled
}

// CreatedAt returns the broadcast creation time. Immutable.
func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

// AcceptedAt returns the claim time, or nil before a claim.
func (a *Assignment) AcceptedAt() *time.Time {
	if a.acceptedAt == nil {
		return nil
	}
	acceptedAt := *a.acceptedAt
	return &acceptedAt
}

// IsBroadcastTo reports whether courierID is in the broadcast set.
func (a *Assignment) IsBroadcastTo(courierID kernel.UUID) bool {
	for _, id := range a.broadcastSet {
		if id.IsEqual(courierID) {
			return true
		}
	}
	return false
}

// Claim converts the broadcast into an exclusive assignment for courierID.
//
// distanceKm is the courier's distance to the delivery point at claim time; it
// is rounded to two decimals and priced at ratePerKm. Returns a
// NotAuthorizedError when the courier was never broadcast to, or a
// ConflictError when the offer is no longer open (the claim race was lost).
func (a *Assignment) Claim(courierID kernel.UUID, distanceKm, ratePerKm float64, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if !a.IsBroadcastTo(courierID) {
		return errs.NewNotAuthorizedError("assignment", courierID.String())
	}

	if distanceKm < 0 {
		return errs.NewValueIsInvalidError("distance km")
	}

	if ratePerKm <= 0 {
		return ErrRatePerKmIsRequired
	}

	newStatus, err := a.status.Claim()
	if err != nil {
		return err
	}

	rounded := math.Round(distanceKm*100) / 100

	a.status = newStatus
	a.assignedCourier = &courierID
	a.distanceKm = rounded
	a.feeAmount = rounded * ratePerKm
	a.acceptedAt = &now
	return nil
}

// Complete marks the delivery finished. Only the assigned courier may
// complete; any other caller gets a NotAuthorizedError, and a non-Assigned
// state yields a ConflictError.
func (a *Assignment) Complete(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if a.assignedCourier == nil || !a.assignedCourier.IsEqual(courierID) {
		return errs.NewNotAuthorizedError("assignment", courierID.String())
	}

	newStatus, err := a.status.Complete()
	if err != nil {
		return err
	}

	a.status = newStatus
	return nil
}

// Expire closes a still-open broadcast. Returns a ConflictError when a claim
// landed first.
func (a *Assignment) Expire() error {
	newStatus, err := a.status.Expire()
	if err != nil {
		return err
	}

	a.status = newStatus
	return nil
}

// MarkPenaltyApplied flips the one-way penalty flag. Allowed only in Expired
// status and only once; a second call is a ConflictError so idempotency
// violations surface to the sweep.
func (a *Assignment) MarkPenaltyApplied() error {
	if a.status != Expired {
		return errs.NewConflictError("assignment status", a.status.String())
	}

	if a.penaltyApplied {
		return errs.NewConflictError("penalty applied", true)
	}

	a.penaltyApplied = true
	return nil
}

// MarkEarningsSettled flips the one-way settlement flag. Allowed only in
// Completed status with a positive fee, and only once.
func (a *Assignment) MarkEarningsSettled() error {
	if a.status != Completed {
		return errs.NewConflictError("assignment status", a.status.String())
	}

	if a.earningsSettled {
		return errs.NewConflictError("earnings settled", true)
	}

	if a.feeAmount <= 0 {
		return errs.NewValueIsRequiredError("fee amount")
	}

	a.earningsSettled = true
	return nil
}

// setID sets the assignment's identifier with validation.
func (a *Assignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

// setOrderID sets the parent order reference with validation.
func (a *Assignment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	a.orderID = orderID
	return nil
}

// setShopID sets the shop reference with validation.
func (a *Assignment) setShopID(shopID kernel.UUID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	a.shopID = shopID
	return nil
}

// setSubOrderID sets the sub-order reference with validation.
func (a *Assignment) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return err
	}
	a.subOrderID = subOrderID
	return nil
}

// setBroadcastSet copies and validates the broadcast targets, dropping
// duplicates so the penalty is never applied twice to one courier.
func (a *Assignment) setBroadcastSet(broadcastTo []kernel.UUID) error {
	seen := make(map[kernel.UUID]struct{}, len(broadcastTo))
	set := make([]kernel.UUID, 0, len(broadcastTo))

	for _, id := range broadcastTo {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		set = append(set, id)
	}

	a.broadcastSet = set
	return nil
}
