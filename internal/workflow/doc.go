// Package workflow is the entry point for defining and running a set of
// dependent tasks.
//
// A Workflow owns its tasks and task groups, a registry used to create them,
// and the state of its last run. Task and group names share one namespace:
// a task may depend on a group by name and starts once the group's batch has
// finished. Tasks created by group expansion are added to the workflow under
// derived names and are replaced on the next run.
package workflow
