// Package dag holds the workflow graph of a blueprint as an in-memory
// directed acyclic graph and answers structural questions about it: direct
// dependencies and dependents of a node, cycle detection and, most
// importantly, the full ancestor set of a node.
//
// A node's ancestors are every node reachable by walking edges backwards
// (target to source). They are the only nodes whose form fields may prefill
// the node's own fields, so the ancestor walk is the foundation of the
// prefill engine.
//
// The walk is iterative with an explicit visited set. A graph is assumed to
// be acyclic; when the walk nevertheless runs into a cycle it stops and
// returns ErrCycle instead of looping.
package dag
