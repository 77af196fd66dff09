// Package assignment contains the Assignment aggregate: the unit of dispatch
// that tracks one offer of a shop's sub-order from broadcast through claim,
// completion, or expiry.
//
// The aggregate owns the lifecycle state machine (see Status) and the two
// one-way idempotency flags, penaltyApplied and earningsSettled. All state
// transitions are validated here; persistence adapters additionally guard the
// same transitions with a compare-and-set on the stored status so concurrent
// claims and sweeps serialize per assignment.
package assignment
