// Package group implements task groups: a batch of tasks fanned out from a
// list found in another task's output.
//
// A group is bound to a trigger task by the first segment of its ForEach
// path. When the trigger completes, the executor calls Expand with the
// trigger's output. Expand walks the rest of the path to a list, creates one
// task per element with the config template rendered for that element, runs
// the batch with at most MaxConcurrent tasks in flight and folds the
// per-item results into one aggregated Result. A failing item never stops
// its siblings.
package group
