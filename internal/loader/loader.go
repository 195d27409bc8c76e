package loader

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/userfunc"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

// Load executes a validated unit's file into a fresh Module. Top-level
// locals are evaluated exactly once, in declaration order; helper functions
// are decoded but only run when called. Any evaluation failure aborts this
// unit only — the caller records the rejection and continues with siblings.
func Load(u *unit.Unit, file *hcl.File) (*Module, error) {
	mod := &Module{
		Unit:   u,
		Locals: make(map[string]cty.Value),
	}

	// Helper functions are decoded first so locals and tool bodies can call
	// them. The context func is resolved lazily per call, so helpers see the
	// unit's fully evaluated namespace.
	funcs, remain, diags := userfunc.DecodeUserFunctions(file.Body, "function", func() *hcl.EvalContext {
		return mod.evalContext(nil)
	})
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid function block: %s", unit.FormatDiagnostics(diags))
	}
	mod.Funcs = funcs

	content, diags := remain.Content(unitBodySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid unit structure: %s", unit.FormatDiagnostics(diags))
	}

	if attr, ok := content.Attributes["description"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &mod.Doc); diags.HasErrors() {
			return nil, fmt.Errorf("invalid description: %s", unit.FormatDiagnostics(diags))
		}
	}

	if err := evalLocals(mod, content.Blocks.OfType("locals")); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, block := range content.Blocks.OfType("tool") {
		tool, err := decodeTool(mod, block)
		if err != nil {
			return nil, err
		}
		if seen[tool.Name] {
			return nil, fmt.Errorf("duplicate tool %q", tool.Name)
		}
		seen[tool.Name] = true
		mod.Tools = append(mod.Tools, tool)
	}

	return mod, nil
}

// evalLocals runs the unit's top-level statements: every attribute of every
// locals block, evaluated once in source order. A local may reference locals
// declared before it; forward references fail the load.
func evalLocals(mod *Module, blocks hcl.Blocks) error {
	type localAttr struct {
		name string
		attr *hcl.Attribute
	}
	var ordered []localAttr

	for _, block := range blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return fmt.Errorf("invalid locals block: %s", unit.FormatDiagnostics(diags))
		}
		for name, attr := range attrs {
			ordered = append(ordered, localAttr{name: name, attr: attr})
		}
	}

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].attr.Range.Start.Byte < ordered[j].attr.Range.Start.Byte
	})

	for _, la := range ordered {
		if _, exists := mod.Locals[la.name]; exists {
			return fmt.Errorf("duplicate local %q", la.name)
		}
		val, diags := la.attr.Expr.Value(mod.evalContext(nil))
		if diags.HasErrors() {
			return fmt.Errorf("evaluating local %q: %s", la.name, unit.FormatDiagnostics(diags))
		}
		mod.Locals[la.name] = val
	}
	return nil
}

// decodeTool compiles one tool block into a callable with its parameter
// contract. Parameter order matches declaration order in source.
func decodeTool(mod *Module, block *hcl.Block) (*Tool, error) {
	name := block.Labels[0]

	content, diags := block.Body.Content(toolBodySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("tool %q: %s", name, unit.FormatDiagnostics(diags))
	}

	tool := &Tool{Name: name, mod: mod}

	if attr, ok := content.Attributes["description"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &tool.Description); diags.HasErrors() {
			return nil, fmt.Errorf("tool %q description: %s", name, unit.FormatDiagnostics(diags))
		}
	}

	resultAttr, ok := content.Attributes["result"]
	if !ok {
		return nil, fmt.Errorf("tool %q has no result expression", name)
	}
	tool.result = resultAttr.Expr

	seen := make(map[string]bool)
	for _, pblock := range content.Blocks.OfType("param") {
		param, err := decodeParam(mod, name, pblock)
		if err != nil {
			return nil, err
		}
		if seen[param.Name] {
			return nil, fmt.Errorf("tool %q: duplicate param %q", name, param.Name)
		}
		seen[param.Name] = true
		tool.Params = append(tool.Params, param)
	}

	return tool, nil
}

func decodeParam(mod *Module, toolName string, block *hcl.Block) (Param, error) {
	param := Param{Name: block.Labels[0]}

	// `local` is the namespace for unit locals inside result expressions, so
	// a parameter cannot shadow it.
	if param.Name == "local" {
		return param, fmt.Errorf("tool %q: param name %q is reserved", toolName, param.Name)
	}

	content, diags := block.Body.Content(paramBodySchema)
	if diags.HasErrors() {
		return param, fmt.Errorf("tool %q param %q: %s", toolName, param.Name, unit.FormatDiagnostics(diags))
	}

	if attr, ok := content.Attributes["type"]; ok {
		ty, diags := unit.TypeFromExpr(attr.Expr)
		if diags.HasErrors() {
			return param, fmt.Errorf("tool %q param %q type: %s", toolName, param.Name, unit.FormatDiagnostics(diags))
		}
		param.Type = ty
		param.Typed = !ty.Equals(cty.DynamicPseudoType)
	}

	if attr, ok := content.Attributes["description"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &param.Description); diags.HasErrors() {
			return param, fmt.Errorf("tool %q param %q description: %s", toolName, param.Name, unit.FormatDiagnostics(diags))
		}
	}

	if attr, ok := content.Attributes["default"]; ok {
		val, diags := attr.Expr.Value(mod.evalContext(nil))
		if diags.HasErrors() {
			return param, fmt.Errorf("tool %q param %q default: %s", toolName, param.Name, unit.FormatDiagnostics(diags))
		}
		if param.Typed {
			converted, err := convert.Convert(val, param.Type)
			if err != nil {
				return param, fmt.Errorf("tool %q param %q: default value is not %s: %w",
					toolName, param.Name, param.Type.FriendlyName(), err)
			}
			val = converted
		}
		param.Default = &val
	}

	return param, nil
}

// mergedFunctions is a test seam exposing the function table a module's
// expressions can call.
func (m *Module) mergedFunctions() map[string]function.Function {
	return m.evalContext(nil).Functions
}
