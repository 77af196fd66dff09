// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// AssignmentRepoFactory provides access to the assignment repository within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// SubOrderRepoFactory provides access to the sub-order repository within a transaction.
	SubOrderRepoFactory interface {
		SubOrderRepository() ports.SubOrderRepository
	}

	// CourierUoW manages transactions for courier-only operations.
	// Used by commands that touch a single courier row: registration,
	// location reports and wallet withdrawals.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// SweepUoW manages transactions for the expiry sweep, which touches
	// assignments and courier wallets but never sub-orders.
	SweepUoW interface {
		TxManager
		AssignmentRepoFactory
		CourierRepoFactory
	}

	// SweepUoWFactory creates new sweep unit of work instances.
	SweepUoWFactory interface {
		Create() SweepUoW
	}

	// UoW manages transactions across assignments, couriers and sub-orders.
	// Used by the dispatch, claim and complete flows, each of which must
	// move all three in one atomic step.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   assignmentRepo := uow.AssignmentRepository()
	//   courierRepo := uow.CourierRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		AssignmentRepoFactory
		CourierRepoFactory
		SubOrderRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
