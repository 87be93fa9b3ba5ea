// Package task defines the unit of work the executor dispatches.
//
// A Task pairs a name and a config with a Runner, the collaborator that does
// the actual work. Before every execution the executor hands the task the
// outputs of its dependencies; Execute then invokes the runner under the
// task's deadline and turns whatever happens (an output, an error, a panic or
// a timeout) into a Result. Task groups publish their aggregated output to
// dependents through a per-task inbox of DependencyResolved events which is
// drained when the task is prepared for dispatch.
package task
