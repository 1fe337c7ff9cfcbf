// Package region provides arena allocation for a module's intermediate
// representation.
//
// A Region hands out byte slices with bump-pointer allocation and reclaims
// them only in bulk. Ownership follows the manager's handoff protocol: the
// creating caller owns a Region until it is transferred into the region
// registry, after which the registry owns it until teardown.
package region
