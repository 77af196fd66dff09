package assignment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery assignment.
// It implements a state machine with defined transitions:
//
//	Broadcast ──┬──> Assigned ──> Completed
//	            │
//	            └──> Expired
//
// Completed and Expired are terminal. Every transition method returns the next
// state or a ConflictError, so a lost race between claim and sweep always
// surfaces as errs.ErrConflict to one of the contenders.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Broadcast is the initial status: the offer is out to zero or more
	// couriers and none has claimed it yet.
	Broadcast

	// Assigned indicates exactly one courier claimed the offer and the
	// delivery is in progress.
	Assigned

	// Completed indicates the delivery finished. Terminal.
	Completed

	// Expired indicates the broadcast window lapsed with no claim. Terminal.
	Expired
)

// getStatusStrings returns the string representation for every Status value,
// including Unknown.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Broadcast: "Broadcast",
		Assigned:  "Assigned",
		Completed: "Completed",
		Expired:   "Expired",
	}
}

// getValidStatusStrings returns only the statuses an Assignment may hold.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Broadcast: "Broadcast",
		Assigned:  "Assigned",
		Completed: "Completed",
		Expired:   "Expired",
	}
}

// Validate checks that the Status is one of the defined lifecycle states.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer. Safe on any value; invalid values print as
// "Unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses a storage name back into a status.
func StatusFromString(name string) (Status, error) {
	for status, statusName := range getValidStatusStrings() {
		if statusName == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("unknown status: %s", name))
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Expired
}

// Claim returns Assigned when the offer is still open. Any other state loses
// the race and gets a ConflictError.
func (s Status) Claim() (Status, error) {
	if s != Broadcast {
		return Unknown, errs.NewConflictError("assignment status", s.String())
	}
	return Assigned, nil
}

// Complete returns Completed for an in-progress delivery. Claiming must have
// happened first; every other state yields a ConflictError.
func (s Status) Complete() (Status, error) {
	if s != Assigned {
		return Unknown, errs.NewConflictError("assignment status", s.String())
	}
	return Completed, nil
}

// Expire returns Expired for a still-open broadcast. A broadcast that was
// claimed in the meantime yields a ConflictError, which the reaper treats as
// "claim won, skip this row".
func (s Status) Expire() (Status, error) {
	if s != Broadcast {
		return Unknown, errs.NewConflictError("assignment status", s.String())
	}
	return Expired, nil
}

// ValidateCanHaveCourier enforces the invariant that an assignment holds a
// courier exactly when it is Assigned or Completed.
func (s Status) ValidateCanHaveCourier(hasCourier bool) error {
	assignedOrCompleted := s == Assigned || s == Completed

	if hasCourier && !assignedOrCompleted {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s must not have a courier", s.String()))
	}

	if !hasCourier && assignedOrCompleted {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s must have a courier", s.String()))
	}

	return nil
}
