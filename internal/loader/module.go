package loader

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

// privatePrefix marks a tool as unit-internal; such tools are never exposed.
const privatePrefix = "_"

// Module is the executed form of a unit: its evaluated locals, its helper
// functions, and its tools in declaration order. A Module is immutable after
// Load returns; reloading a unit produces a fresh Module.
type Module struct {
	Unit   *unit.Unit
	Doc    string
	Locals map[string]cty.Value
	Funcs  map[string]function.Function
	Tools  []*Tool
}

// Param is one entry of a tool's ordered parameter contract.
type Param struct {
	Name        string
	Type        cty.Type
	Typed       bool
	Description string
	Default     *cty.Value
}

// Required reports whether a call must supply this parameter.
func (p Param) Required() bool { return p.Default == nil }

// TypeName renders the declared type for listings; untyped parameters are
// permissive.
func (p Param) TypeName() string {
	if !p.Typed {
		return "any"
	}
	return p.Type.FriendlyName()
}

// Tool is a single callable member of a module.
type Tool struct {
	Name        string
	Description string
	Params      []Param

	result hcl.Expression
	mod    *Module
}

// Exported reports whether the tool is eligible to become a registry entry.
func (t *Tool) Exported() bool {
	return !strings.HasPrefix(t.Name, privatePrefix)
}

// Call evaluates the tool's result expression with the given arguments bound
// as variables. Arguments must already be validated and converted against
// the parameter contract; Call itself applies no defaults.
func (t *Tool) Call(args map[string]cty.Value) (cty.Value, error) {
	evalCtx := t.mod.evalContext(args)
	val, diags := t.result.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("%s", unit.FormatDiagnostics(diags))
	}
	return val, nil
}

// Exported returns the module's tools eligible for exposure, in declaration
// order.
func (m *Module) Exported() []*Tool {
	var out []*Tool
	for _, t := range m.Tools {
		if t.Exported() {
			out = append(out, t)
		}
	}
	return out
}

// evalContext builds the evaluation context for an expression inside this
// module: the unit's locals under `local.`, its helper functions, and any
// per-call variables bound by bare name.
func (m *Module) evalContext(vars map[string]cty.Value) *hcl.EvalContext {
	variables := make(map[string]cty.Value, len(vars)+1)
	for name, val := range vars {
		variables[name] = val
	}
	if len(m.Locals) > 0 {
		variables["local"] = cty.ObjectVal(m.Locals)
	}

	funcs := make(map[string]function.Function, len(baseFunctions)+len(m.Funcs))
	for name, fn := range baseFunctions {
		funcs[name] = fn
	}
	for name, fn := range m.Funcs {
		funcs[name] = fn
	}

	return &hcl.EvalContext{
		Variables: variables,
		Functions: funcs,
	}
}
