package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/prefillgrid/internal/config"
	"github.com/specialistvlad/prefillgrid/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file found under paths, in discovery order, and
// merges their blocks over config.Default. Singleton blocks in later files
// override earlier ones attribute by attribute. The first global block
// replaces the default global keys; redeclaring a key is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := config.Default()

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	evalCtx := envEvalContext()
	globalsDeclared := false
	seen := make(map[string]string)

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.translateBlueprint(root.Blueprint, &model.Blueprint); err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
		if err := l.translateServer(root.Server, &model.Server); err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
		if root.Notify != nil {
			model.Notify = l.translateNotify(root.Notify)
		}

		for _, g := range root.Globals {
			if prev, dup := seen[g.Key]; dup {
				return nil, fmt.Errorf("in %s: global %q already declared in %s", file, g.Key, prev)
			}
			seen[g.Key] = file

			global, err := translateGlobal(ctx, g, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			if !globalsDeclared {
				model.Globals = nil
				globalsDeclared = true
			}
			model.Globals = append(model.Globals, global)
		}
	}

	logger.Debug("HCL loading complete.",
		"files", len(hclFiles),
		"globals", len(model.Globals),
		"blueprint_url", model.Blueprint.URL,
		"notify", model.Notify != nil,
	)
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // A configured path that doesn't exist is not an error.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}

		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return allFiles, nil
}
