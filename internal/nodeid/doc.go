/*
Package nodeid parses and formats dotted reference paths.

A path names a task and, optionally, a location inside that task's output,
e.g. `scan.subdomains` or `crawl.pages[2].links`. The first segment is always
the task (or task group) name; the remaining segments walk into the output
value. Each segment may carry a single list index.
*/
package nodeid
