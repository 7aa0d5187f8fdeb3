// Package poweroff provides the external action the scheduler invokes when a
// countdown reaches zero.
//
// The scheduler treats the action as opaque: PowerOff either returns nil or
// an error describing why the machine could not be shut down. Command runs a
// platform shutdown command, DryRun only logs, and Func adapts a plain
// function for tests and embedding applications.
package poweroff
