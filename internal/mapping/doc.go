// Package mapping holds the prefill mappings a user configured during a
// session: which data source fills which field of which node.
//
// # Duplicate targets
//
// The store keeps mappings in insertion order and does not deduplicate.
// Adding a second mapping for a target that already has one appends it, so
// the target then has two entries. The resolution policy is fixed:
//
//   - FindForTarget returns the earliest matching entry ("first wins").
//   - Remove deletes every entry of the target, not only the first one.
//
// Replacing an existing mapping is therefore Remove followed by Add.
//
// # Highlight
//
// The most recently added mapping is remembered as a transient UI hint and
// is cleared automatically after the highlight TTL. Nothing besides display
// code should read it.
package mapping
