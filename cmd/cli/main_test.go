package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/prefillgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBlueprint(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "blueprint.json")
	require.NoError(t, os.WriteFile(p, []byte(testutil.BlueprintJSON), 0o600))
	return p
}

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	invalidHCL := `
		server {
			port = 8080
		// Missing closing brace here
	`
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600))

	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	runErr := run(context.Background(), out, logs, []string{"-config", filePath, "-blueprint", "bp.json", "inspect"})

	require.Error(t, runErr)
	assert.Contains(t, runErr.Error(), "application startup panicked")
	assert.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_MissingBlueprintLocation(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"inspect"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no blueprint location configured")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_SourcesJSON(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{
		"-blueprint", writeBlueprint(t), "-format", "json", "sources", "-node", "address",
	})
	require.NoError(t, err)

	var report struct {
		NodeID string   `json:"nodeId"`
		Fields []string `json:"fields"`
		Groups []struct {
			ParentName string `json:"parentName"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "address", report.NodeID)
	assert.Equal(t, []string{"street", "city", "zip"}, report.Fields)
	require.Len(t, report.Groups, 2)
	assert.Equal(t, "Global", report.Groups[0].ParentName)
	assert.Equal(t, "Customer Info Form", report.Groups[1].ParentName)
}

func TestRun_LoadFailure(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.json")
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"-blueprint", missing, "inspect"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading blueprint")
}
