// Package yamlconfig loads workflow templates written in YAML into the
// format-agnostic config.Model.
//
//	name: text_processing
//	tasks:
//	  read:
//	    type: file_ops
//	    config: {operation: read, file_path: input.txt}
//	  upper:
//	    type: uppercase
//	    depends_on: [read]
//	    timeout: 5
//	groups:
//	  shout:
//	    type: echo
//	    for_each: read.lines
//	    max_concurrent: 2
//	    config: {message: "${item}"}
//
// Unknown keys are rejected. Tasks and groups are keyed by name and are
// returned sorted by name.
package yamlconfig
