package order

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for sub-order operations.
var (
	// ErrSubOrderIsNotConstructed is returned when using an improperly
	// initialized SubOrder.
	ErrSubOrderIsNotConstructed = errors.New(
		"SubOrder must be created via NewSubOrder or RestoreSubOrder constructors")
	// ErrDeliveryCodeMismatch is returned when the supplied delivery
	// confirmation code does not match the one generated at order placement.
	ErrDeliveryCodeMismatch = errs.NewValueIsInvalidError("delivery code")
)

// SubOrder is the dispatch engine's view of one shop's portion of a
// multi-shop order: where to deliver it, its delivery status, how many
// dispatch attempts it has seen, and the optional one-time confirmation code.
// The order system proper lives outside this core; this model carries exactly
// the state the dispatch flow reads and writes.
type SubOrder struct {
	id      kernel.UUID
	orderID kernel.UUID
	shopID  kernel.UUID

	deliveryPoint kernel.GeoPoint
	status        DeliveryStatus
	attempt       int

	assignmentID *kernel.UUID
	deliveryCode string

	guard guard.ConstructorGuard
}

// NewSubOrder creates a sub-order awaiting dispatch. deliveryCode may be empty
// when the order was placed without delivery confirmation.
func NewSubOrder(
	id kernel.UUID,
	orderID kernel.UUID,
	shopID kernel.UUID,
	deliveryPoint kernel.GeoPoint,
	deliveryCode string,
) (*SubOrder, error) {
	return RestoreSubOrder(id, orderID, shopID, deliveryPoint, Preparing, 1, nil, deliveryCode)
}

// RestoreSubOrder reconstructs a sub-order from persistent storage.
func RestoreSubOrder(
	id kernel.UUID,
	orderID kernel.UUID,
	shopID kernel.UUID,
	deliveryPoint kernel.GeoPoint,
	status DeliveryStatus,
	attempt int,
	assignmentID *kernel.UUID,
	deliveryCode string,
) (*SubOrder, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	if attempt < 1 {
		attempt = 1
	}

	so := &SubOrder{
		status:       status,
		attempt:      attempt,
		deliveryCode: deliveryCode,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		so.setID(id),
		so.setOrderID(orderID),
		so.setShopID(shopID),
		so.setDeliveryPoint(deliveryPoint),
	); err != nil {
		return nil, err
	}

	if assignmentID != nil {
		if err := assignmentID.Validate(); err != nil {
			return nil, err
		}
		linked := *assignmentID
		so.assignmentID = &linked
	}

	return so, nil
}

// Validate checks that the SubOrder was built through a constructor.
func (so *SubOrder) Validate() error {
	if so == nil {
		return ErrSubOrderIsNotConstructed
	}
	return so.guard.Validate(ErrSubOrderIsNotConstructed)
}

// ID returns the sub-order's unique identifier.
func (so *SubOrder) ID() kernel.UUID {
	return so.id
}

// OrderID returns the parent order's identifier.
func (so *SubOrder) OrderID() kernel.UUID {
	return so.orderID
}

// ShopID returns the shop this portion belongs to.
func (so *SubOrder) ShopID() kernel.UUID {
	return so.shopID
}

// DeliveryPoint returns the customer's delivery coordinates.
func (so *SubOrder) DeliveryPoint() kernel.GeoPoint {
	return so.deliveryPoint
}

// Status returns the delivery status.
func (so *SubOrder) Status() DeliveryStatus {
	return so.status
}

// Attempt returns the dispatch retry counter, starting at 1.
func (so *SubOrder) Attempt() int {
	return so.attempt
}

// AssignmentID returns the currently linked assignment, or nil.
func (so *SubOrder) AssignmentID() *kernel.UUID {
	if so.assignmentID == nil {
		return nil
	}
	linked := *so.assignmentID
	return &linked
}

// RequiresDeliveryCode reports whether completion must present the one-time
// confirmation code.
func (so *SubOrder) RequiresDeliveryCode() bool {
	return so.deliveryCode != ""
}

// DeliveryCode returns the stored confirmation code, empty once the delivery
// is confirmed. Exposed for persistence; handlers verify through
// VerifyDeliveryCode instead of comparing directly.
func (so *SubOrder) DeliveryCode() string {
	return so.deliveryCode
}

// LinkAssignment records the assignment created for this sub-order and bumps
// the retry counter past the first attempt on re-dispatch.
func (so *SubOrder) LinkAssignment(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	if so.assignmentID != nil && !so.assignmentID.IsEqual(assignmentID) {
		so.attempt++
	}

	so.assignmentID = &assignmentID
	return nil
}

// MarkOutForDelivery records that a courier claimed the assignment.
func (so *SubOrder) MarkOutForDelivery() error {
	next, err := so.status.OutForDelivery()
	if err != nil {
		return err
	}
	so.status = next
	return nil
}

// MarkDelivered records completion and clears the one-time confirmation code.
func (so *SubOrder) MarkDelivered() error {
	next, err := so.status.Deliver()
	if err != nil {
		return err
	}
	so.status = next
	so.deliveryCode = ""
	return nil
}

// VerifyDeliveryCode compares the supplied code with the one generated at
// order placement. Returns ErrDeliveryCodeMismatch on a miss; a sub-order
// without a code accepts any input.
func (so *SubOrder) VerifyDeliveryCode(code string) error {
	if so.deliveryCode == "" {
		return nil
	}

	if so.deliveryCode != code {
		return ErrDeliveryCodeMismatch
	}

	return nil
}

// setID sets the sub-order's identifier with validation.
func (so *SubOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	so.id = id
	return nil
}

// setOrderID sets the parent order reference with validation.
func (so *SubOrder) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	so.orderID = orderID
	return nil
}

// setShopID sets the shop reference with validation.
func (so *SubOrder) setShopID(shopID kernel.UUID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	so.shopID = shopID
	return nil
}

// setDeliveryPoint sets the delivery coordinates with validation.
func (so *SubOrder) setDeliveryPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	so.deliveryPoint = point
	return nil
}
