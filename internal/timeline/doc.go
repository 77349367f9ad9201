// Package timeline implements the global animation clock and the registry
// of animated properties keyed by "node.property".
//
// The clock keeps the current time inside [0, duration]. When playback runs
// past the end it wraps if looping and otherwise clamps and pauses. Listeners
// subscribed with Subscribe are notified after each state change completes.
package timeline
