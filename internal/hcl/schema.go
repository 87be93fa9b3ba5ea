package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level structure of a workflow file.
type fileRoot struct {
	Workflows []*workflowBlock `hcl:"workflow,block"`
	Tasks     []*taskBlock     `hcl:"task,block"`
	Groups    []*groupBlock    `hcl:"task_group,block"`
}

type workflowBlock struct {
	Name string `hcl:"name,label"`
}

type taskBlock struct {
	Name      string         `hcl:"name,label"`
	Type      string         `hcl:"type,optional"`
	Function  string         `hcl:"function,optional"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Timeout   string         `hcl:"timeout,optional"`
	Config    hcl.Expression `hcl:"config,optional"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

type groupBlock struct {
	Name          string         `hcl:"name,label"`
	Type          string         `hcl:"type"`
	ForEach       hcl.Expression `hcl:"for_each"`
	MaxConcurrent int            `hcl:"max_concurrent,optional"`
	AllowPartial  bool           `hcl:"allow_partial,optional"`
	Config        hcl.Expression `hcl:"config,optional"`
	DeclRange     hcl.Range      `hcl:",def_range"`
}
