package prefill

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/prefillgrid/internal/blueprint"
	"github.com/specialistvlad/prefillgrid/internal/dag"
)

// ErrUnknownNode is returned when a node id is not part of the blueprint.
var ErrUnknownNode = errors.New("node not found in blueprint")

// Resolver answers source queries for one immutable blueprint snapshot. The
// dependency graph is indexed once and results are memoized per node, so
// repeated queries for the same node return the same values. It is safe for
// concurrent use.
type Resolver struct {
	bp      *blueprint.Blueprint
	graph   *dag.Graph
	globals []string

	mu    sync.Mutex
	cache map[string]*resolved
}

type resolved struct {
	sources []DataSource
	grouped Grouped
}

// NewResolver indexes bp. The globals slice is copied.
func NewResolver(bp *blueprint.Blueprint, globals []string) *Resolver {
	return &Resolver{
		bp:      bp,
		graph:   bp.Graph(),
		globals: slices.Clone(globals),
		cache:   make(map[string]*resolved),
	}
}

// Blueprint returns the snapshot the resolver works on.
func (r *Resolver) Blueprint() *blueprint.Blueprint {
	return r.bp
}

// Graph returns the dependency graph of the snapshot.
func (r *Resolver) Graph() *dag.Graph {
	return r.graph
}

// Globals returns the configured global field keys.
func (r *Resolver) Globals() []string {
	return slices.Clone(r.globals)
}

// Sources returns the flat source list for the node. The returned slice
// must not be modified.
func (r *Resolver) Sources(nodeID string) ([]DataSource, error) {
	res, err := r.resolve(nodeID)
	if err != nil {
		return nil, err
	}
	return res.sources, nil
}

// Grouped returns the grouped source structure for the node. The returned
// value must not be modified.
func (r *Resolver) Grouped(nodeID string) (Grouped, error) {
	res, err := r.resolve(nodeID)
	if err != nil {
		return Grouped{}, err
	}
	return res.grouped, nil
}

// Ancestors returns the ancestor node ids of the node.
func (r *Resolver) Ancestors(nodeID string) ([]string, error) {
	if _, ok := r.bp.Node(nodeID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}
	return r.graph.Ancestors(nodeID)
}

func (r *Resolver) resolve(nodeID string) (*resolved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res, ok := r.cache[nodeID]; ok {
		return res, nil
	}

	target, ok := r.bp.Node(nodeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}

	sources, err := availableSources(target, r.bp, r.graph, r.globals)
	if err != nil {
		return nil, err
	}

	res := &resolved{sources: sources, grouped: Group(sources)}
	r.cache[nodeID] = res
	return res, nil
}
