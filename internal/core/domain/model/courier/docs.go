// Package courier models the dispatch engine's view of delivery couriers.
//
// Courier is a read-mostly snapshot (identity, last reported position, recency
// of that report) used for broadcast eligibility and fee calculation. Wallet
// is the mutable financial state the engine settles earnings into and debits
// penalties from; it is the only part of the courier this core writes.
package courier
