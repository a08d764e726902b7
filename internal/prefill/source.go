package prefill

import "fmt"

// SourceType tells global data sources apart from ancestor form fields.
type SourceType string

const (
	// SourceGlobal is a global constant field.
	SourceGlobal SourceType = "global"
	// SourceFormField is a field of an ancestor node's form.
	SourceFormField SourceType = "form_field"
)

const (
	// GlobalID is the owning identity of every global source.
	GlobalID = "global"
	// GlobalName is the display name of the global group.
	GlobalName = "Global"
)

// DataSource is an origin that may supply a prefilled value. For form fields
// ID and Name are the owning node's id and display name. Two sources are the
// same source when their ID and FieldKey match.
type DataSource struct {
	Type     SourceType `json:"type" yaml:"type"`
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	FieldKey string     `json:"fieldKey" yaml:"fieldKey"`
}

// Global builds the global source for a field key.
func Global(fieldKey string) DataSource {
	return DataSource{Type: SourceGlobal, ID: GlobalID, Name: GlobalName, FieldKey: fieldKey}
}

// FormField builds a form field source owned by the given node.
func FormField(nodeID, nodeName, fieldKey string) DataSource {
	return DataSource{Type: SourceFormField, ID: nodeID, Name: nodeName, FieldKey: fieldKey}
}

// SameAs reports whether both values denote the same origin.
func (s DataSource) SameAs(other DataSource) bool {
	return s.ID == other.ID && s.FieldKey == other.FieldKey
}

// LeafID returns the leaf identifier of the source.
func (s DataSource) LeafID() string {
	return LeafID(s.ID, s.FieldKey)
}

// String renders the source as "Name.fieldKey".
func (s DataSource) String() string {
	return fmt.Sprintf("%s.%s", s.Name, s.FieldKey)
}
