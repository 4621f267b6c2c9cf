// Package stores implements the Redis-backed record stores used by the
// engine. Records use a versioned binary encoding; decimal values are stored
// as the exact strings the exchange sent so no precision is lost in transit.
package stores
