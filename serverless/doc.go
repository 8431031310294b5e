// Package serverless reads a serverless-style deployment descriptor.
//
// Functions and their events are decoded once, up front: every event that
// carries an HTTP binding becomes a [Trigger] whose [TriggerKind] says which
// declaration shape was found. Object-shaped triggers expose the normalized
// [HTTPEvent]; string-shaped ones are kept as [TriggerShorthand] and are not
// expanded.
package serverless
