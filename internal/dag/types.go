package dag

import "sync"

// Graph is a collection of nodes and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order records node IDs in insertion order so listings are deterministic.
	order []string
}

// Edge is a single directed precedence relation: Target runs after Source.
type Edge struct {
	Source string
	Target string
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id string
	// deps holds the nodes that this node depends on (predecessors), in the
	// order their edges were added.
	deps []*node
	// dependents holds the nodes that depend on this node (successors), in
	// the order their edges were added.
	dependents []*node
	// depSet mirrors deps for duplicate-edge detection.
	depSet map[string]struct{}
}
