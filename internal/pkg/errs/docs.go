// Package errs provides the standardized error types used across the dispatch
// engine. It implements one consistent pattern for error creation, formatting,
// and unwrapping.
//
// The error taxonomy surfaced to callers maps onto four outcomes:
//   - ObjectNotFoundError: a referenced entity is absent
//   - NotAuthorizedError: the caller lacks rights over the entity
//   - ConflictError: the state was already transitioned by a concurrent race
//   - ValueIsInvalidError / ValueIsRequiredError / ValueIsOutOfRangeError:
//     malformed, missing, or out-of-bounds input
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrConflict)
//   - a struct type with fields for error details
//   - constructor functions with and without a cause
//   - Error() for formatting and Unwrap() for errors.Is classification
//
// Callers branch on sentinels, not on concrete types:
//
//	if errors.Is(err, errs.ErrConflict) {
//	    // the claim/sweep race was lost; re-poll
//	}
package errs
