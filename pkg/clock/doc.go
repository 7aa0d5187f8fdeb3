// Package clock abstracts wall-clock time and periodic ticks.
//
// The scheduler reads time exclusively through a Clock so that deadline
// computation and the countdown loop can be driven deterministically in
// tests. Production code uses Real; tests use Fake and advance it by hand.
//
// # Monotonic Readings
//
// Real.Now returns time.Now, which carries a monotonic clock reading.
// Durations derived from it (deadline.Sub(now)) are therefore immune to
// wall-clock adjustments as long as the deadline was itself produced by
// adding a duration to a Now value.
package clock
