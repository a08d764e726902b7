package dag

import (
	"errors"
	"fmt"
)

// ErrCycle is returned when a walk over the graph runs into a cycle.
var ErrCycle = errors.New("cycle detected")

// Ancestors returns the IDs of every node that precedes id along some path,
// deduplicated, in depth-first discovery order: a direct parent is followed by
// its own ancestors before the next direct parent is visited. Parents are
// visited in the order their edges were added.
//
// An unknown ID or a node without incoming edges yields an empty slice. The
// node itself is never part of the result; if it would be, the graph has a
// cycle and ErrCycle is returned.
func (g *Graph) Ancestors(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	start, ok := g.nodes[id]
	if !ok {
		return []string{}, nil
	}

	return g.walkUp(start, make(map[string]bool))
}

// AncestorsOf is a shorthand for FromEdges(edges).Ancestors(id). Callers that
// query many nodes of the same graph should build the Graph once instead.
func AncestorsOf(id string, edges []Edge) ([]string, error) {
	return FromEdges(edges).Ancestors(id)
}

// walkUp performs an iterative depth-first walk over dependency edges starting
// at start. Nodes already present in done are treated as fully explored and
// skipped; every node visited by this walk is added to done. The caller must
// hold at least a read lock.
func (g *Graph) walkUp(start *node, done map[string]bool) ([]string, error) {
	type frame struct {
		n    *node
		next int
	}

	found := make([]string, 0)
	onPath := map[string]bool{start.id: true}
	stack := []*frame{{n: start}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.n.deps) {
			delete(onPath, top.n.id)
			done[top.n.id] = true
			stack = stack[:len(stack)-1]
			continue
		}

		parent := top.n.deps[top.next]
		top.next++

		if onPath[parent.id] {
			return nil, fmt.Errorf("%w involving node '%s'", ErrCycle, parent.id)
		}
		if done[parent.id] {
			continue
		}

		found = append(found, parent.id)
		onPath[parent.id] = true
		stack = append(stack, &frame{n: parent})
	}

	return found, nil
}
