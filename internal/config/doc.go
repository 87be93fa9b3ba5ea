// Package config defines the format-agnostic workflow model and the Loader
// interface that produces it.
//
// Workflow files may be written in HCL or YAML; each format has its own
// loader package translating documents into a config.Model. The workflow
// package builds a runnable Workflow from the model without knowing where
// it came from.
package config
