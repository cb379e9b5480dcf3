// Package feed implements the mutation engines that operate on an Atom feed
// document: metadata changes, entry addition, and pruning.
package feed

import "time"

// Clock supplies the current time to the engines. Every mutating operation
// stamps the document through a Clock so tests can pin timestamps instead of
// racing the process clock.
type Clock func() time.Time

// SystemClock reads the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// now normalizes a clock reading for storage in the model: UTC, monotonic
// reading stripped, so values survive an encode/decode round trip unchanged.
func (c Clock) now() time.Time {
	return c().UTC()
}
