// Package rate enforces the REST request-weight budget shared by every
// process pointed at the same Redis, using per-minute window counters.
package rate
