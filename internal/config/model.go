package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Defaults used when neither a file nor a flag sets a value.
const (
	DefaultPort             = 8080
	DefaultBlueprintTimeout = 10 * time.Second
	DefaultHighlightTTL     = 1500 * time.Millisecond
)

// DefaultGlobalKeys are the global field keys offered when no global block
// is configured.
var DefaultGlobalKeys = []string{"test_data", "test_data2", "test_data3"}

// Model is the unified, format-agnostic representation of the application
// configuration.
type Model struct {
	Blueprint BlueprintSource
	Globals   []Global
	Server    Server
	// Notify is nil when no notifier is configured.
	Notify *Notify
}

// BlueprintSource says where the blueprint document is fetched from.
type BlueprintSource struct {
	URL     string
	Timeout time.Duration
}

// Global is one configured global field.
type Global struct {
	Key         string
	Description string
	// Type is the declared type; cty.DynamicPseudoType when undeclared.
	Type cty.Type
	// Value is cty.NilVal when the block has no value attribute.
	Value cty.Value
}

// Server holds settings for the HTTP API.
type Server struct {
	Port         int
	HighlightTTL time.Duration
}

// Notify holds the socket.io notifier endpoint.
type Notify struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// Default returns the model used when no configuration file is present.
func Default() *Model {
	m := &Model{
		Blueprint: BlueprintSource{Timeout: DefaultBlueprintTimeout},
		Server:    Server{Port: DefaultPort, HighlightTTL: DefaultHighlightTTL},
	}
	for _, key := range DefaultGlobalKeys {
		m.Globals = append(m.Globals, Global{Key: key, Type: cty.DynamicPseudoType, Value: cty.NilVal})
	}
	return m
}

// GlobalKeys returns the global field keys in declaration order.
func (m *Model) GlobalKeys() []string {
	keys := make([]string, 0, len(m.Globals))
	for _, g := range m.Globals {
		keys = append(keys, g.Key)
	}
	return keys
}

// HasValue reports whether the global carries a constant value.
func (g Global) HasValue() bool {
	return g.Value != cty.NilVal && !g.Value.IsNull()
}

// ValueJSON renders the global's value as JSON; "null" when it has none.
func (g Global) ValueJSON() (json.RawMessage, error) {
	if !g.HasValue() {
		return json.RawMessage("null"), nil
	}
	if !g.Value.IsWhollyKnown() {
		return nil, fmt.Errorf("global %q: value is not known", g.Key)
	}
	out, err := ctyjson.Marshal(g.Value, g.Value.Type())
	if err != nil {
		return nil, fmt.Errorf("global %q: %w", g.Key, err)
	}
	return out, nil
}
