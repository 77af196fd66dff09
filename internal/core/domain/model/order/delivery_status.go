package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// DeliveryStatus tracks a sub-order's delivery progress.
type DeliveryStatus int

const (
	// DeliveryStatusUnknown is the zero value; never valid in storage.
	DeliveryStatusUnknown DeliveryStatus = iota

	// Preparing means the shop is still assembling the sub-order.
	Preparing

	// OutForDelivery means a courier claimed the assignment and is en route.
	OutForDelivery

	// Delivered means the courier confirmed handover to the customer.
	Delivered
)

// getDeliveryStatusStrings maps all statuses to their storage names.
func getDeliveryStatusStrings() map[DeliveryStatus]string {
	return map[DeliveryStatus]string{
		DeliveryStatusUnknown: "Unknown",
		Preparing:             "Preparing",
		OutForDelivery:        "OutForDelivery",
		Delivered:             "Delivered",
	}
}

// getValidDeliveryStatusStrings maps the statuses allowed in storage.
func getValidDeliveryStatusStrings() map[DeliveryStatus]string {
	return map[DeliveryStatus]string{
		Preparing:      "Preparing",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
	}
}

// Validate checks that the status is one of the persistable values.
func (s DeliveryStatus) Validate() error {
	if _, ok := getValidDeliveryStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery status",
			fmt.Errorf("unknown delivery status: %d", int(s)))
	}
	return nil
}

// String returns the storage name of the status.
func (s DeliveryStatus) String() string {
	if name, ok := getDeliveryStatusStrings()[s]; ok {
		return name
	}
	return fmt.Sprintf("DeliveryStatus(%d)", int(s))
}

// DeliveryStatusFromString parses a storage name back into a status.
func DeliveryStatusFromString(name string) (DeliveryStatus, error) {
	for status, statusName := range getValidDeliveryStatusStrings() {
		if statusName == name {
			return status, nil
		}
	}
	return DeliveryStatusUnknown, errs.NewValueIsInvalidErrorWithCause("delivery status",
		fmt.Errorf("unknown delivery status: %s", name))
}

// OutForDelivery transitions Preparing to OutForDelivery.
func (s DeliveryStatus) OutForDelivery() (DeliveryStatus, error) {
	if s != Preparing {
		return s, errs.NewConflictError("delivery status", s.String())
	}
	return OutForDelivery, nil
}

// Deliver transitions OutForDelivery to Delivered.
func (s DeliveryStatus) Deliver() (DeliveryStatus, error) {
	if s != OutForDelivery {
		return s, errs.NewConflictError("delivery status", s.String())
	}
	return Delivered, nil
}
