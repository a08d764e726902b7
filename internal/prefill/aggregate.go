package prefill

import (
	"fmt"

	"github.com/specialistvlad/prefillgrid/internal/blueprint"
	"github.com/specialistvlad/prefillgrid/internal/dag"
)

// AvailableSources lists every data source that may prefill fields of target:
// one global source per key in globals, in the given order, followed by one
// form field source per field of every ancestor of target. Ancestors are
// listed in the order the blueprint declares its nodes and their fields in
// schema order. The target itself and nodes that do not precede it never
// appear.
//
// A nil blueprint or target yields an empty list. The only error is a cycle
// reported by the ancestor walk.
func AvailableSources(target *blueprint.Node, bp *blueprint.Blueprint, globals []string) ([]DataSource, error) {
	if bp == nil || target == nil {
		return []DataSource{}, nil
	}
	return availableSources(target, bp, bp.Graph(), globals)
}

func availableSources(target *blueprint.Node, bp *blueprint.Blueprint, g *dag.Graph, globals []string) ([]DataSource, error) {
	ancestorIDs, err := g.Ancestors(target.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving ancestors of node '%s': %w", target.ID, err)
	}

	sources := make([]DataSource, 0, len(globals))
	for _, key := range globals {
		sources = append(sources, Global(key))
	}

	ancestors := make(map[string]struct{}, len(ancestorIDs))
	for _, id := range ancestorIDs {
		ancestors[id] = struct{}{}
	}

	for i := range bp.Nodes {
		n := &bp.Nodes[i]
		if _, ok := ancestors[n.ID]; !ok {
			continue
		}
		for _, key := range blueprint.FieldsOf(n, bp.Forms) {
			sources = append(sources, FormField(n.ID, n.Data.Name, key))
		}
	}

	return sources, nil
}
