// Package orchestration tracks the asynchronous setup tasks of a client
// bootstrap. Each task is registered by description, may wait on futures
// produced by other tasks, and on completion updates a single progress
// signal derived from the number of finished and pending tasks. It decouples
// the bookkeeping from presentation via the ProgressIndicator and
// TaskObserver interfaces.
//
// Pending entries are removed by description, not by identity: when two
// in-flight tasks share a description, a success removes the first matching
// entry, whichever call it belonged to. Failed tasks are never removed.
package orchestration
