package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/prefillgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

var primitiveTypes = map[string]cty.Type{
	"string": cty.String,
	"number": cty.Number,
	"bool":   cty.Bool,
	"any":    cty.DynamicPseudoType,
}

var collectionTypes = map[string]func(cty.Type) cty.Type{
	"list": cty.List,
	"map":  cty.Map,
	"set":  cty.Set,
}

// typeExprToCtyType reads a type keyword such as `string` or `list(number)`
// from a global block's type attribute.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return cty.DynamicPseudoType, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.DynamicPseudoType, fmt.Errorf("invalid type keyword: expected a single identifier")
		}
		name := v.Traversal.RootName()
		ty, ok := primitiveTypes[name]
		if !ok {
			return cty.DynamicPseudoType, fmt.Errorf("unknown primitive type %q", name)
		}
		logger.Debug("Parsed primitive type.", "keyword", name)
		return ty, nil

	case *hclsyntax.FunctionCallExpr:
		build, ok := collectionTypes[v.Name]
		if !ok {
			return cty.DynamicPseudoType, fmt.Errorf("unknown type constructor %q", v.Name)
		}
		if len(v.Args) != 1 {
			return cty.DynamicPseudoType, fmt.Errorf("%s() takes exactly one argument, got %d", v.Name, len(v.Args))
		}
		elem, err := typeExprToCtyType(ctx, v.Args[0])
		if err != nil {
			return cty.DynamicPseudoType, err
		}
		if elem.Equals(cty.DynamicPseudoType) {
			return cty.DynamicPseudoType, fmt.Errorf("%s(any) is not supported", v.Name)
		}
		logger.Debug("Parsed collection type.", "constructor", v.Name, "element", elem.FriendlyName())
		return build(elem), nil

	default:
		return cty.DynamicPseudoType, fmt.Errorf("unsupported expression for type: %T", v)
	}
}
