// Package hcl loads workflow definitions written in HCL into the
// format-agnostic config.Model.
//
// A workflow file holds an optional `workflow` block naming the workflow,
// any number of `task` blocks and any number of `task_group` blocks:
//
//	workflow "bounty" {}
//
//	task "scan" {
//	  type   = "subdomain_scanner"
//	  config = { target = "example.com" }
//	}
//
//	task_group "check" {
//	  type           = "http_request"
//	  for_each       = scan.subdomains
//	  max_concurrent = 3
//	  config         = { url = "https://${item}" }
//	}
//
// Config expressions are evaluated once at load time. The variable `item`
// evaluates to the literal placeholder, so "${item}" survives into the
// group's config template and is substituted per item at expansion.
package hcl
