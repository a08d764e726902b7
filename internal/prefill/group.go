package prefill

import (
	"sort"
)

// Leaf is one selectable field inside a group.
type Leaf struct {
	LeafID string     `json:"leafId" yaml:"leafId"`
	Label  string     `json:"label" yaml:"label"`
	Source DataSource `json:"source" yaml:"source"`
}

// SourceGroup collects the fields offered by one origin.
type SourceGroup struct {
	ParentID   string `json:"parentId" yaml:"parentId"`
	ParentName string `json:"parentName" yaml:"parentName"`
	Children   []Leaf `json:"children" yaml:"children"`
}

// Grouped is the presentation form of a source list.
type Grouped struct {
	Groups         []SourceGroup         `json:"groups" yaml:"groups"`
	LeafIDToSource map[string]DataSource `json:"leafIdToSource" yaml:"leafIdToSource"`
}

// LeafID composes the identifier of a field within a group. Field keys may
// contain colons, so a leaf id is never split; resolve it through Lookup.
func LeafID(parentID, fieldKey string) string {
	return parentID + ":" + fieldKey
}

// Group arranges sources by origin. The global group comes first and the
// remaining groups follow by display name; children are sorted by field key.
// Both orderings compare bytes and are stable.
func Group(sources []DataSource) Grouped {
	out := Grouped{
		Groups:         []SourceGroup{},
		LeafIDToSource: make(map[string]DataSource, len(sources)),
	}

	index := make(map[string]int)
	for _, src := range sources {
		leaf := Leaf{
			LeafID: src.LeafID(),
			Label:  src.FieldKey,
			Source: src,
		}
		out.LeafIDToSource[leaf.LeafID] = src

		i, ok := index[src.ID]
		if !ok {
			i = len(out.Groups)
			index[src.ID] = i
			out.Groups = append(out.Groups, SourceGroup{ParentID: src.ID, ParentName: src.Name})
		}
		out.Groups[i].Children = append(out.Groups[i].Children, leaf)
	}

	for _, g := range out.Groups {
		sort.SliceStable(g.Children, func(a, b int) bool {
			return g.Children[a].Label < g.Children[b].Label
		})
	}

	sort.SliceStable(out.Groups, func(a, b int) bool {
		ga, gb := out.Groups[a], out.Groups[b]
		if ga.ParentID == GlobalID || gb.ParentID == GlobalID {
			return ga.ParentID == GlobalID && gb.ParentID != GlobalID
		}
		return ga.ParentName < gb.ParentName
	})

	return out
}

// Leaves returns every leaf of the grouped structure in display order.
func (g Grouped) Leaves() []Leaf {
	var leaves []Leaf
	for _, group := range g.Groups {
		leaves = append(leaves, group.Children...)
	}
	return leaves
}

// Lookup resolves a leaf identifier to its source.
func (g Grouped) Lookup(leafID string) (DataSource, bool) {
	src, ok := g.LeafIDToSource[leafID]
	return src, ok
}
