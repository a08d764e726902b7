// Package blueprint defines the workflow document a prefill session works on:
// the nodes and edges of the process graph and the forms its nodes reference.
package blueprint

import (
	"encoding/json"

	"github.com/specialistvlad/prefillgrid/internal/dag"
)

// Blueprint is the complete workflow document.
type Blueprint struct {
	Schema      string            `json:"$schema,omitempty"`
	ID          string            `json:"id"`
	TenantID    string            `json:"tenant_id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Nodes       []Node            `json:"nodes"`
	Edges       []Edge            `json:"edges"`
	Forms       []Form            `json:"forms"`
	Branches    []json.RawMessage `json:"branches,omitempty"`
	Triggers    []json.RawMessage `json:"triggers,omitempty"`
}

// Node is one step of the workflow graph.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type,omitempty"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Position is layout metadata. It plays no part in prefill resolution.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData links a node to its form and carries its display name.
type NodeData struct {
	ID               string         `json:"id,omitempty"`
	ComponentKey     string         `json:"component_key,omitempty"`
	ComponentType    string         `json:"component_type,omitempty"`
	ComponentID      string         `json:"component_id"`
	Name             string         `json:"name"`
	Prerequisites    []string       `json:"prerequisites,omitempty"`
	PermittedRoles   []string       `json:"permitted_roles,omitempty"`
	InputMapping     map[string]any `json:"input_mapping,omitempty"`
	SLADuration      *Duration      `json:"sla_duration,omitempty"`
	ApprovalRequired bool           `json:"approval_required,omitempty"`
	ApprovalRoles    []string       `json:"approval_roles,omitempty"`
}

// Duration is an amount of some time unit, e.g. {"number": 2, "unit": "days"}.
type Duration struct {
	Number int    `json:"number"`
	Unit   string `json:"unit"`
}

// Edge is a direct precedence relation between two nodes.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Form is a form definition referenced by nodes through NodeData.ComponentID.
type Form struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	IsReusable  bool            `json:"is_reusable,omitempty"`
	FieldSchema FieldSchema     `json:"field_schema"`
	UISchema    json.RawMessage `json:"ui_schema,omitempty"`
}

// FieldSchema is the JSON-schema-like description of a form's fields.
type FieldSchema struct {
	Type       string     `json:"type,omitempty"`
	Properties Properties `json:"properties"`
	Required   []string   `json:"required,omitempty"`
}

// Node returns the node with the given id.
func (b *Blueprint) Node(id string) (*Node, bool) {
	if b == nil {
		return nil, false
	}
	for i := range b.Nodes {
		if b.Nodes[i].ID == id {
			return &b.Nodes[i], true
		}
	}
	return nil, false
}

// FormFor returns the form referenced by the node's component id.
func (b *Blueprint) FormFor(n *Node) (*Form, bool) {
	if b == nil || n == nil {
		return nil, false
	}
	return findForm(n, b.Forms)
}

// Graph builds the dependency graph of the document. Every declared node is
// present even when it has no edges.
func (b *Blueprint) Graph() *dag.Graph {
	g := dag.New()
	if b == nil {
		return g
	}
	for _, n := range b.Nodes {
		g.AddNode(n.ID)
	}
	for _, e := range b.Edges {
		g.AddNode(e.Source)
		g.AddNode(e.Target)
		_ = g.AddEdge(e.Source, e.Target)
	}
	return g
}
