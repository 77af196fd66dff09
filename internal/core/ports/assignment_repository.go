// Package ports defines repository interfaces for the dispatch domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for assignment aggregates.
// Provides methods for storing, retrieving, and querying assignments together
// with their broadcast sets.
type AssignmentRepository interface {
	// Add persists a new assignment aggregate to storage, including its
	// broadcast set. The assignment must be valid and not already exist.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Update persists changes to an existing assignment only if its stored
	// status still equals expectedStatus. When a concurrent writer moved the
	// assignment out of expectedStatus first, no row is changed and a
	// conflict error is returned. This compare-and-swap is what serializes
	// racing claims and claim-versus-expiry sweeps.
	Update(ctx context.Context, aggregate *assignment.Assignment, expectedStatus assignment.Status) error

	// Get retrieves an assignment aggregate by its unique identifier.
	// Returns the complete assignment with its broadcast set.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// GetBusyCourierIDs retrieves the ids of couriers that currently hold an
	// assignment in Assigned status. Busy couriers are excluded from new
	// broadcast sets.
	GetBusyCourierIDs(ctx context.Context) ([]kernel.UUID, error)

	// GetAllBroadcastBefore retrieves all assignments still in Broadcast
	// status that were created before the cutoff. Used by the expiry sweep
	// to find offers nobody claimed in time.
	GetAllBroadcastBefore(ctx context.Context, cutoff time.Time) ([]*assignment.Assignment, error)
}
