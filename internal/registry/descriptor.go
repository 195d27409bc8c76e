package registry

import (
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/AJ-Gonzalez/black-orchid/internal/loader"
)

// Descriptor is the registry's unit of exposure: one public tool name bound
// to a callable from an origin unit. Descriptors are immutable; a reload
// replaces them, never mutates them in place.
type Descriptor struct {
	// Name is the public name, suffixed with the origin unit's logical name
	// when the bare name was already claimed.
	Name string
	// Unit is the origin unit's logical name.
	Unit string
	// Original is the symbol name as declared in the unit.
	Original string
	// Renamed reports whether Name carries a collision suffix.
	Renamed bool
	// Doc is the tool's description, empty when the unit declared none.
	Doc string
	// Params is the ordered parameter contract.
	Params []loader.Param

	tool *loader.Tool
}

// Call invokes the underlying callable. Arguments must already satisfy the
// parameter contract.
func (d *Descriptor) Call(args map[string]cty.Value) (cty.Value, error) {
	return d.tool.Call(args)
}

// ParamInfo is the listing form of one contract entry.
type ParamInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToolInfo is the listing form of a Descriptor.
type ToolInfo struct {
	Name   string      `json:"name"`
	Unit   string      `json:"unit"`
	Doc    string      `json:"doc"`
	Params []ParamInfo `json:"params"`
}

// Info renders the descriptor for list_tools output.
func (d *Descriptor) Info() ToolInfo {
	info := ToolInfo{
		Name:   d.Name,
		Unit:   d.Unit,
		Doc:    d.Doc,
		Params: make([]ParamInfo, 0, len(d.Params)),
	}
	for _, p := range d.Params {
		pi := ParamInfo{
			Name:        p.Name,
			Type:        p.TypeName(),
			Required:    p.Required(),
			Description: p.Description,
		}
		if p.Default != nil {
			if raw, err := ctyjson.Marshal(*p.Default, p.Default.Type()); err == nil {
				pi.Default = string(raw)
			}
		}
		info.Params = append(info.Params, pi)
	}
	return info
}
