// Package history records the outcome of every armed shutdown cycle in a
// SQLite database.
//
// Store is the persistence layer. Recorder adapts it to log.Logger so the
// scheduler's event trace feeds the history without extra wiring: an ARM
// event opens a row, and the terminal CANCEL, COMPLETE or FAIL event closes
// it. Rejected arms and ticks are not recorded.
package history
