// Package dag records which tasks depend on which.
//
// A Graph is built once per run from the declared dependency lists of every
// task and task group. It keeps each node's dependencies in declaration order
// and the reverse mapping from a name to the nodes that depend on it. A
// dependency may name something that is not a node of the graph; such edges
// are kept so that readiness checks see them, and Missing reports them.
package dag
