// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle, decoupled
// from any specific entrypoint like a CLI or server.
//
// An App loads a workflow definition (HCL or YAML), builds a runnable
// workflow against the compiled-in task modules, runs it once and writes a
// per-task summary.
package app
