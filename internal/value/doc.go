// Package value holds the helpers for the dynamic values that flow between
// tasks. Task configs and outputs are cty.Value objects; this package
// converts them to and from native Go values, walks dotted paths into them
// and renders them as plain strings for templating and derived task names.
package value
