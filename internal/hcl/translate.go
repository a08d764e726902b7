package hcl

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/prefillgrid/internal/config"
	"github.com/specialistvlad/prefillgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

func (l *Loader) translateBlueprint(b *blueprintBlock, dst *config.BlueprintSource) error {
	if b == nil {
		return nil
	}
	if b.URL != nil {
		dst.URL = *b.URL
	}
	if b.Timeout != nil {
		d, err := parsePositiveDuration("blueprint.timeout", *b.Timeout)
		if err != nil {
			return err
		}
		dst.Timeout = d
	}
	return nil
}

func (l *Loader) translateServer(s *serverBlock, dst *config.Server) error {
	if s == nil {
		return nil
	}
	if s.Port != nil {
		if *s.Port < 1 || *s.Port > 65535 {
			return fmt.Errorf("server.port: %d is out of range", *s.Port)
		}
		dst.Port = *s.Port
	}
	if s.HighlightTTL != nil {
		d, err := time.ParseDuration(*s.HighlightTTL)
		if err != nil {
			return fmt.Errorf("server.highlight_ttl: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("server.highlight_ttl: must not be negative")
		}
		dst.HighlightTTL = d
	}
	return nil
}

func (l *Loader) translateNotify(n *notifyBlock) *config.Notify {
	out := &config.Notify{URL: n.URL, Namespace: "/"}
	if n.Namespace != nil {
		out.Namespace = *n.Namespace
	}
	if n.InsecureSkipVerify != nil {
		out.InsecureSkipVerify = *n.InsecureSkipVerify
	}
	return out
}

// translateGlobal evaluates a global block's value and converts it to the
// declared type, if any.
func translateGlobal(ctx context.Context, g *globalBlock, evalCtx *hcl.EvalContext) (config.Global, error) {
	out := config.Global{Key: g.Key, Type: cty.DynamicPseudoType, Value: cty.NilVal}
	if g.Description != nil {
		out.Description = *g.Description
	}

	if isExprDefined(ctx, g.Type, "type") {
		ty, err := typeExprToCtyType(ctx, g.Type)
		if err != nil {
			return out, fmt.Errorf("global %q: %w", g.Key, err)
		}
		out.Type = ty
	}

	if !isExprDefined(ctx, g.Value, "value") {
		return out, nil
	}

	val, diags := g.Value.Value(evalCtx)
	if diags.HasErrors() {
		return out, fmt.Errorf("global %q: invalid value: %w", g.Key, diags)
	}
	if !out.Type.Equals(cty.DynamicPseudoType) {
		converted, err := convert.Convert(val, out.Type)
		if err != nil {
			return out, fmt.Errorf("global %q: cannot convert %s to %s: %w", g.Key, val.Type().FriendlyName(), out.Type.FriendlyName(), err)
		}
		val = converted
	}
	out.Value = val
	return out, nil
}

// isExprDefined checks if an HCL expression was actually present in the
// source. The decoder fills omitted optional expression fields with
// zero-width placeholder expressions, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", r.String(),
		"is_defined", defined,
	)
	return defined
}

func parsePositiveDuration(name, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", name)
	}
	return d, nil
}
