// Package lighter implements the execution broker for the Lighter.xyz
// perpetuals exchange, a ZK rollup order book.
//
// Lighter identifies markets by integer index and encodes prices and
// quantities as fixed-point integers. The broker hides both behind the
// unified symbol convention and decimal types: callers declare their
// symbols upfront via a symbol map and never see market indices except
// inside order ids.
//
// Order identifiers are asymmetric on Lighter. Placement returns the ZK
// rollup transaction hash; cancellation needs the market and order
// indices, which [Broker.OpenOrders] encodes as "{market}:{index}" in
// each order's client id.
package lighter
