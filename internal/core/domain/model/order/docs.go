// Package order holds the dispatch engine's read/write view of sub-orders.
//
// An order placed across several shops is split into one sub-order per shop;
// dispatch works at sub-order granularity. The SubOrder model carries only
// what the dispatch flow needs: the delivery point, the delivery status, the
// linked assignment, the retry counter and the optional one-time confirmation
// code. The order system owning the rest of the order lifecycle stays outside
// this core.
package order
