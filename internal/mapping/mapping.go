package mapping

import (
	"fmt"

	"github.com/specialistvlad/prefillgrid/internal/prefill"
)

// PrefillMapping binds one target field to one data source.
type PrefillMapping struct {
	Source         prefill.DataSource `json:"source" yaml:"source"`
	TargetNodeID   string             `json:"targetNodeId" yaml:"targetNodeId"`
	TargetFieldKey string             `json:"targetFieldKey" yaml:"targetFieldKey"`
}

// Targets reports whether the mapping fills the given field.
func (m PrefillMapping) Targets(nodeID, fieldKey string) bool {
	return m.TargetNodeID == nodeID && m.TargetFieldKey == fieldKey
}

// String renders the mapping as "node.field <- Source.field".
func (m PrefillMapping) String() string {
	return fmt.Sprintf("%s.%s <- %s", m.TargetNodeID, m.TargetFieldKey, m.Source)
}

// EventKind names a store mutation.
type EventKind string

const (
	EventAdded            EventKind = "added"
	EventRemoved          EventKind = "removed"
	EventHighlightCleared EventKind = "highlight_cleared"
)

// Event describes one store mutation. For EventRemoved, Mapping carries only
// the target and Count the number of removed entries.
type Event struct {
	Kind    EventKind      `json:"kind"`
	Mapping PrefillMapping `json:"mapping"`
	Count   int            `json:"count,omitempty"`
}

// Listener receives store events. Listeners run synchronously after the
// store lock is released and must not block.
type Listener func(Event)
