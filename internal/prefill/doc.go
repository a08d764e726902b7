// Package prefill resolves where a form field's prefilled value may come
// from.
//
// For a target node of a blueprint, AvailableSources lists every legal data
// source: the configured global fields first, then each field of every
// ancestor node's form. Group turns that flat list into the grouped, sorted
// structure an editor renders as a tree, together with a lookup from leaf
// identifiers back to sources.
//
// Both functions are pure. Resolver wraps them for one blueprint snapshot and
// memoizes results per node.
package prefill
