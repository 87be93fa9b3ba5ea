// Package scheduler decides which nodes of a dependency graph may run next.
//
// A node is ready when it has not completed yet and every one of its
// dependencies has. A node without dependencies is ready immediately. A
// dependency that never completes, because it failed to be declared or
// because it sits on a cycle, keeps its dependents out of every ready set;
// the scheduler never reports this as an error, the executor simply runs
// out of ready work.
package scheduler
