package session

import (
	"github.com/specialistvlad/prefillgrid/internal/blueprint"
)

// NodeView is the graph-view projection of a node.
type NodeView struct {
	ID       string             `json:"id" yaml:"id"`
	Label    string             `json:"label" yaml:"label"`
	FormID   string             `json:"formId" yaml:"formId"`
	Position blueprint.Position `json:"position" yaml:"position"`
	// HasSourceConnection is true when some edge ends at the node.
	HasSourceConnection bool `json:"hasSourceConnection" yaml:"hasSourceConnection"`
	// HasTargetConnection is true when some edge starts at the node.
	HasTargetConnection bool `json:"hasTargetConnection" yaml:"hasTargetConnection"`
	Parents             []string `json:"parents" yaml:"parents"`
	Children            []string `json:"children" yaml:"children"`
}

// EdgeView is the graph-view projection of an edge.
type EdgeView struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// NodeViews projects the blueprint's nodes in declaration order.
func (s *State) NodeViews() ([]NodeView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, ErrNoBlueprint
	}

	g := s.resolver.Graph()
	views := make([]NodeView, 0, len(s.data.Nodes))
	for _, n := range s.data.Nodes {
		parents, _ := g.Dependencies(n.ID)
		children, _ := g.Dependents(n.ID)
		views = append(views, NodeView{
			ID:                  n.ID,
			Label:               n.Data.Name,
			FormID:              n.Data.ComponentID,
			Position:            n.Position,
			HasSourceConnection: len(parents) > 0,
			HasTargetConnection: len(children) > 0,
			Parents:             parents,
			Children:            children,
		})
	}
	return views, nil
}

// EdgeViews projects the blueprint's edges; an edge's id is
// "<source>-<target>".
func (s *State) EdgeViews() ([]EdgeView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, ErrNoBlueprint
	}

	views := make([]EdgeView, 0, len(s.data.Edges))
	for _, e := range s.data.Edges {
		views = append(views, EdgeView{
			ID:     e.Source + "-" + e.Target,
			Source: e.Source,
			Target: e.Target,
		})
	}
	return views, nil
}
