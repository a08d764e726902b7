package blueprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidNodeID is returned for node ids that would make leaf ids
// ambiguous.
var ErrInvalidNodeID = errors.New("invalid node id")

// Decode parses a blueprint document. Node ids must not contain ':', the
// separator of leaf ids.
func Decode(data []byte) (*Blueprint, error) {
	var bp Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("malformed blueprint document: %w", err)
	}
	for _, n := range bp.Nodes {
		if strings.Contains(n.ID, ":") {
			return nil, fmt.Errorf("%w '%s': must not contain ':'", ErrInvalidNodeID, n.ID)
		}
	}
	return &bp, nil
}
