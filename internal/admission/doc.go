// Package admission implements the RSS-gated spawn gate: a new
// worker may start only while the active worker count is
// under the configured cap and the observed aggregate memory stays
// under a threshold derived from the container's memory budget.
package admission
