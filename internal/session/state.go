package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/prefillgrid/internal/blueprint"
	"github.com/specialistvlad/prefillgrid/internal/ctxlog"
	"github.com/specialistvlad/prefillgrid/internal/loader"
	"github.com/specialistvlad/prefillgrid/internal/mapping"
	"github.com/specialistvlad/prefillgrid/internal/prefill"
)

var (
	// ErrNoBlueprint is returned by queries that need a loaded blueprint.
	ErrNoBlueprint = errors.New("no blueprint loaded")
	// ErrNodeNotFound is returned for node ids the blueprint does not declare.
	ErrNodeNotFound = errors.New("node not found")
	// ErrUnknownLeaf is returned when a leaf id is not offered for a target.
	ErrUnknownLeaf = errors.New("leaf is not an available source")
)

// Status is the load status of the blueprint.
type Status struct {
	Loading bool   `json:"loading"`
	Loaded  bool   `json:"loaded"`
	Error   string `json:"error,omitempty"`
}

// State is the state of one editing session. It is safe for concurrent use.
type State struct {
	mu          sync.RWMutex
	globals     []string
	store       *mapping.Store
	data        *blueprint.Blueprint
	fingerprint uint64
	resolver    *prefill.Resolver
	loading     bool
	err         string
	selected    string
}

// New creates an empty session. globals is the configured list of global
// field keys; store receives the session's mappings.
func New(globals []string, store *mapping.Store) *State {
	return &State{
		globals: slices.Clone(globals),
		store:   store,
	}
}

// Load fetches a blueprint and makes it the current snapshot. While the load
// runs, Status reports Loading. On failure the loader's message is recorded
// as the status error, the previous snapshot stays in place and the error is
// returned. Reloading a byte-identical document keeps the memoized resolver.
func (s *State) Load(ctx context.Context, l loader.Loader) error {
	logger := ctxlog.FromContext(ctx)

	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	logger.Debug("Loading blueprint.", "location", l.Location())
	doc, err := l.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.err = err.Error()
		logger.Error("Blueprint load failed.", "location", l.Location(), "error", err)
		return fmt.Errorf("loading blueprint from %s: %w", l.Location(), err)
	}

	if s.data != nil && s.fingerprint == doc.Fingerprint {
		logger.Debug("Blueprint unchanged, keeping resolver.", "fingerprint", doc.Fingerprint)
		return nil
	}

	s.data = doc.Blueprint
	s.fingerprint = doc.Fingerprint
	s.resolver = prefill.NewResolver(doc.Blueprint, s.globals)
	if _, ok := s.data.Node(s.selected); !ok {
		s.selected = ""
	}

	logger.Info("Blueprint loaded.",
		"id", doc.Blueprint.ID,
		"nodes", len(doc.Blueprint.Nodes),
		"edges", len(doc.Blueprint.Edges),
		"forms", len(doc.Blueprint.Forms),
	)
	return nil
}

// Status returns the current load status.
func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{Loading: s.loading, Loaded: s.data != nil, Error: s.err}
}

// ClearError resets the recorded load error.
func (s *State) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = ""
}

// ClearData drops the loaded snapshot and the selection. Mappings are kept.
func (s *State) ClearData() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = nil
	s.fingerprint = 0
	s.resolver = nil
	s.selected = ""
}

// Blueprint returns the loaded snapshot.
func (s *State) Blueprint() (*blueprint.Blueprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, ErrNoBlueprint
	}
	return s.data, nil
}

// Globals returns the configured global field keys.
func (s *State) Globals() []string {
	return slices.Clone(s.globals)
}

// Mappings returns the session's mapping store.
func (s *State) Mappings() *mapping.Store {
	return s.store
}

// Select makes nodeID the selected node.
func (s *State) Select(nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return ErrNoBlueprint
	}
	if _, ok := s.data.Node(nodeID); !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	s.selected = nodeID
	return nil
}

// ClearSelection deselects the selected node.
func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = ""
}

// SelectedNode returns the selected node.
func (s *State) SelectedNode() (*blueprint.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == "" {
		return nil, false
	}
	return s.data.Node(s.selected)
}

// SelectedForm returns the form of the selected node.
func (s *State) SelectedForm() (*blueprint.Form, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == "" {
		return nil, false
	}
	n, ok := s.data.Node(s.selected)
	if !ok {
		return nil, false
	}
	return s.data.FormFor(n)
}

// AvailableSources returns the sources for the selected node, or an empty
// list when no node is selected.
func (s *State) AvailableSources() ([]prefill.DataSource, error) {
	r, selected := s.snapshot()
	if r == nil || selected == "" {
		return []prefill.DataSource{}, nil
	}
	return r.Sources(selected)
}

// GroupedSources returns the grouped sources for the selected node, or an
// empty structure when no node is selected.
func (s *State) GroupedSources() (prefill.Grouped, error) {
	r, selected := s.snapshot()
	if r == nil || selected == "" {
		return prefill.Group(nil), nil
	}
	return r.Grouped(selected)
}

// SourcesFor returns the flat source list for any node.
func (s *State) SourcesFor(nodeID string) ([]prefill.DataSource, error) {
	r, err := s.resolverFor(nodeID)
	if err != nil {
		return nil, err
	}
	return r.Sources(nodeID)
}

// GroupedFor returns the grouped sources for any node.
func (s *State) GroupedFor(nodeID string) (prefill.Grouped, error) {
	r, err := s.resolverFor(nodeID)
	if err != nil {
		return prefill.Grouped{}, err
	}
	return r.Grouped(nodeID)
}

// FieldsOf returns the field keys of the node's own form.
func (s *State) FieldsOf(nodeID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, ErrNoBlueprint
	}
	n, ok := s.data.Node(nodeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	return blueprint.FieldsOf(n, s.data.Forms), nil
}

// MappingFromLeaf builds the mapping an editor produces when the user picks
// leafID in the source tree of the target node. The leaf must be one of the
// sources offered for that node.
func (s *State) MappingFromLeaf(targetNodeID, targetFieldKey, leafID string) (mapping.PrefillMapping, error) {
	grouped, err := s.GroupedFor(targetNodeID)
	if err != nil {
		return mapping.PrefillMapping{}, err
	}
	src, ok := grouped.Lookup(leafID)
	if !ok {
		return mapping.PrefillMapping{}, fmt.Errorf("%w: %s for node %s", ErrUnknownLeaf, leafID, targetNodeID)
	}
	return mapping.PrefillMapping{
		Source:         src,
		TargetNodeID:   targetNodeID,
		TargetFieldKey: targetFieldKey,
	}, nil
}

// MappingFromSource builds a mapping from a source given by value. The source
// must denote one of the origins offered for the target node; the offered
// value is used so display names follow the loaded blueprint.
func (s *State) MappingFromSource(targetNodeID, targetFieldKey string, src prefill.DataSource) (mapping.PrefillMapping, error) {
	sources, err := s.SourcesFor(targetNodeID)
	if err != nil {
		return mapping.PrefillMapping{}, err
	}
	i := slices.IndexFunc(sources, src.SameAs)
	if i < 0 {
		return mapping.PrefillMapping{}, fmt.Errorf("%w: %s for node %s", ErrUnknownLeaf, src.LeafID(), targetNodeID)
	}
	return mapping.PrefillMapping{
		Source:         sources[i],
		TargetNodeID:   targetNodeID,
		TargetFieldKey: targetFieldKey,
	}, nil
}

func (s *State) snapshot() (*prefill.Resolver, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resolver, s.selected
}

func (s *State) resolverFor(nodeID string) (*prefill.Resolver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.resolver == nil {
		return nil, ErrNoBlueprint
	}
	if _, ok := s.data.Node(nodeID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	return s.resolver, nil
}
