// Package testutil holds fixtures and helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/specialistvlad/prefillgrid/internal/blueprint"
	"github.com/stretchr/testify/require"
)

// BlueprintJSON is a small onboarding workflow:
//
//	customer ──► address ──► final ──► review
//	    │                      ▲
//	    └──────► b_form ───────┘
//
// The review node references a form that does not exist. Field keys are
// deliberately declared out of alphabetical order.
const BlueprintJSON = `{
  "$schema": "https://example.com/blueprint.schema.json",
  "id": "bp_onboarding",
  "tenant_id": "tenant_1",
  "name": "Onboarding",
  "description": "Customer onboarding workflow",
  "category": "sales",
  "nodes": [
    {
      "id": "customer",
      "type": "form",
      "position": {"x": 100, "y": 100},
      "data": {
        "id": "bp_c_customer",
        "component_key": "customer",
        "component_type": "form",
        "component_id": "f_customer",
        "name": "Customer Info Form",
        "prerequisites": [],
        "permitted_roles": ["admin"],
        "input_mapping": {},
        "sla_duration": {"number": 24, "unit": "hours"},
        "approval_required": false,
        "approval_roles": []
      }
    },
    {
      "id": "address",
      "type": "form",
      "position": {"x": 300, "y": 50},
      "data": {"component_id": "f_address", "name": "Address Info Form", "prerequisites": ["customer"]}
    },
    {
      "id": "b_form",
      "type": "form",
      "position": {"x": 300, "y": 150},
      "data": {"component_id": "f_customer", "name": "B Form Node", "prerequisites": ["customer"]}
    },
    {
      "id": "final",
      "type": "form",
      "position": {"x": 500, "y": 100},
      "data": {"component_id": "f_final", "name": "Final Form", "prerequisites": ["address", "b_form"]}
    },
    {
      "id": "review",
      "type": "form",
      "position": {"x": 700, "y": 100},
      "data": {"component_id": "f_missing", "name": "Review", "prerequisites": ["final"]}
    }
  ],
  "edges": [
    {"source": "customer", "target": "address"},
    {"source": "customer", "target": "b_form"},
    {"source": "address", "target": "final"},
    {"source": "b_form", "target": "final"},
    {"source": "final", "target": "review"}
  ],
  "forms": [
    {
      "id": "f_customer",
      "name": "Customer Info",
      "is_reusable": false,
      "field_schema": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "email": {"type": "string", "format": "email"},
          "phone": {"type": "string"}
        },
        "required": ["name"]
      },
      "ui_schema": {"type": "VerticalLayout", "elements": []}
    },
    {
      "id": "f_address",
      "name": "Address Info",
      "field_schema": {
        "type": "object",
        "properties": {
          "street": {"type": "string"},
          "city": {"type": "string"},
          "zip": {"type": "string"}
        }
      }
    },
    {
      "id": "f_final",
      "name": "Final",
      "field_schema": {
        "type": "object",
        "properties": {
          "summary": {"type": "string"},
          "approved": {"type": "boolean"}
        }
      }
    }
  ],
  "branches": [],
  "triggers": []
}`

// DefaultGlobals is the global field list used when nothing is configured.
var DefaultGlobals = []string{"test_data", "test_data2", "test_data3"}

// Blueprint decodes BlueprintJSON.
func Blueprint(t *testing.T) *blueprint.Blueprint {
	t.Helper()
	bp, err := blueprint.Decode([]byte(BlueprintJSON))
	require.NoError(t, err)
	return bp
}

// Node returns the fixture node with the given id.
func Node(t *testing.T, bp *blueprint.Blueprint, id string) *blueprint.Node {
	t.Helper()
	n, ok := bp.Node(id)
	require.True(t, ok, "fixture node %q not found", id)
	return n
}
