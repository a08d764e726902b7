package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/prefillgrid/internal/prefill"
	"github.com/specialistvlad/prefillgrid/internal/session"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// globalView is the rendered form of a configured global field.
type globalView struct {
	Key         string `json:"key" yaml:"key"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string `json:"type" yaml:"type"`
	Value       any    `json:"value" yaml:"value"`
}

type inspectReport struct {
	ID      string             `json:"id" yaml:"id"`
	Name    string             `json:"name" yaml:"name"`
	Globals []globalView       `json:"globals" yaml:"globals"`
	Nodes   []session.NodeView `json:"nodes" yaml:"nodes"`
	Edges   []session.EdgeView `json:"edges" yaml:"edges"`
}

type sourcesReport struct {
	NodeID   string                `json:"nodeId" yaml:"nodeId"`
	NodeName string                `json:"nodeName" yaml:"nodeName"`
	Fields   []string              `json:"fields" yaml:"fields"`
	Groups   []prefill.SourceGroup `json:"groups" yaml:"groups"`
}

func (a *App) globalViews() ([]globalView, error) {
	views := make([]globalView, 0, len(a.model.Globals))
	for _, g := range a.model.Globals {
		raw, err := g.ValueJSON()
		if err != nil {
			return nil, err
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("global %q: %w", g.Key, err)
		}
		typeName := "any"
		if !g.Type.Equals(cty.DynamicPseudoType) {
			typeName = g.Type.FriendlyName()
		}
		views = append(views, globalView{
			Key:         g.Key,
			Description: g.Description,
			Type:        typeName,
			Value:       value,
		})
	}
	return views, nil
}

func (a *App) inspect() error {
	bp, err := a.session.Blueprint()
	if err != nil {
		return err
	}
	globals, err := a.globalViews()
	if err != nil {
		return err
	}
	nodes, err := a.session.NodeViews()
	if err != nil {
		return err
	}
	edges, err := a.session.EdgeViews()
	if err != nil {
		return err
	}

	report := inspectReport{ID: bp.ID, Name: bp.Name, Globals: globals, Nodes: nodes, Edges: edges}
	return a.render(report, func(w io.Writer) error {
		fmt.Fprintf(w, "Blueprint %s (%s)\n\n", report.ID, report.Name)

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "GLOBAL\tTYPE\tDESCRIPTION")
		for _, g := range report.Globals {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", g.Key, g.Type, g.Description)
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "NODE\tNAME\tFORM\tPARENTS\tCHILDREN")
		for _, n := range report.Nodes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Label, n.FormID, list(n.Parents), list(n.Children))
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(w, "\nEDGES")
		for _, e := range report.Edges {
			fmt.Fprintf(w, "  %s -> %s\n", e.Source, e.Target)
		}
		return nil
	})
}

func (a *App) sources(nodeID string) error {
	bp, err := a.session.Blueprint()
	if err != nil {
		return err
	}
	fields, err := a.session.FieldsOf(nodeID)
	if err != nil {
		return err
	}
	grouped, err := a.session.GroupedFor(nodeID)
	if err != nil {
		return err
	}
	n, _ := bp.Node(nodeID)

	report := sourcesReport{NodeID: nodeID, NodeName: n.Data.Name, Fields: fields, Groups: grouped.Groups}
	return a.render(report, func(w io.Writer) error {
		fmt.Fprintf(w, "Sources for %s (%s)\n", report.NodeID, report.NodeName)
		fmt.Fprintf(w, "Fields: %s\n", list(report.Fields))
		if len(report.Groups) == 0 {
			fmt.Fprintln(w, "\nNo data sources available.")
			return nil
		}
		for _, g := range report.Groups {
			fmt.Fprintf(w, "\n%s\n", g.ParentName)
			for _, leaf := range g.Children {
				fmt.Fprintf(w, "  %s\n", leaf.LeafID)
			}
		}
		return nil
	})
}

// render writes v in the configured format; text uses the given writer func.
func (a *App) render(v any, text func(io.Writer) error) error {
	switch a.cfg.Format {
	case FormatJSON:
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(a.outW)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(a.outW)
	}
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}
