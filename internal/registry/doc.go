// Package registry maps task type and function names to the Go code that
// runs them.
//
// Modules contribute task types at startup through the Module interface. A
// task type is a Factory plus an optional input schema; the schema fills in
// defaults and converts config values to their declared types before the
// factory sees them, so a misconfigured task is rejected when it is created
// instead of when it runs. Functions are plain runners registered at runtime
// and take their config as given.
package registry
