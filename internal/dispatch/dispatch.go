package dispatch

import (
	"context"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/AJ-Gonzalez/black-orchid/internal/ctxlog"
	"github.com/AJ-Gonzalez/black-orchid/internal/registry"
)

// Dispatcher executes tool calls against the registry's current namespace.
type Dispatcher struct {
	reg *registry.Registry
}

// New creates a Dispatcher over the given registry.
func New(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Call resolves the named tool, validates the argument bag against its
// parameter contract, and invokes it. Validation order: missing required
// arguments, then unexpected names, then type conversion. The invocation
// runs under a panic guard so a misbehaving tool degrades only this call.
func (d *Dispatcher) Call(ctx context.Context, toolName string, args map[string]any) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)

	desc, ok := d.reg.Resolve(toolName)
	if !ok {
		return cty.NilVal, &NotFoundError{Tool: toolName}
	}

	contract := make(map[string]int, len(desc.Params))
	for i, p := range desc.Params {
		contract[p.Name] = i
	}

	for _, p := range desc.Params {
		if !p.Required() {
			continue
		}
		if _, supplied := args[p.Name]; !supplied {
			return cty.NilVal, &MissingArgumentError{Tool: toolName, Param: p.Name}
		}
	}

	// Sorted so the first reported unknown name is deterministic.
	supplied := make([]string, 0, len(args))
	for name := range args {
		supplied = append(supplied, name)
	}
	sort.Strings(supplied)
	for _, name := range supplied {
		if _, known := contract[name]; !known {
			return cty.NilVal, &UnexpectedArgumentError{Tool: toolName, Arg: name}
		}
	}

	bound := make(map[string]cty.Value, len(desc.Params))
	for _, p := range desc.Params {
		raw, ok := args[p.Name]
		if !ok {
			if p.Default != nil {
				bound[p.Name] = *p.Default
			}
			continue
		}
		val, err := argToCty(toolName, p, raw)
		if err != nil {
			return cty.NilVal, err
		}
		bound[p.Name] = val
	}

	logger.Debug("Dispatching tool call.", "tool", toolName, "unit", desc.Unit)
	result, err := d.invoke(desc, bound)
	if err != nil {
		logger.Warn("Tool call failed.", "tool", toolName, "error", err)
		return cty.NilVal, &ExecutionError{Tool: toolName, Err: err}
	}
	return result, nil
}

// invoke runs the callable behind a recover barrier. cty operations panic on
// some type errors that conversion cannot rule out in advance.
func (d *Dispatcher) invoke(desc *registry.Descriptor, args map[string]cty.Value) (result cty.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = cty.NilVal
			err = fmt.Errorf("panic during invocation: %v", r)
		}
	}()
	return desc.Call(args)
}
