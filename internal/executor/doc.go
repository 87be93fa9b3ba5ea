// Package executor runs a workflow in rounds.
//
// Each round asks the scheduler for every task whose dependencies have all
// completed, dispatches that whole set concurrently and waits for it. The
// round's results are then processed one task at a time: the task is marked
// completed, any task group triggered by it is expanded and run to
// completion, and the first failure halts the run. The run ends either when
// no task is ready any more (drained) or on that first failure (halted).
// Tasks already running when a failure is seen are never cancelled; their
// results are kept.
package executor
