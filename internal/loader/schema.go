package loader

import "github.com/hashicorp/hcl/v2"

// unitBodySchema describes the top level of a unit file after its `function`
// blocks have been consumed by the userfunc decoder.
var unitBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "locals"},
		{Type: "tool", LabelNames: []string{"name"}},
	},
}

// toolBodySchema describes the body of a `tool` block. The `result`
// expression is the tool's body; it is kept unevaluated until dispatch.
var toolBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "result"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "param", LabelNames: []string{"name"}},
	},
}

// paramBodySchema describes the body of a `param` block. `type` is optional;
// a parameter without one is untyped and accepts any value. A parameter with
// no `default` is required.
var paramBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "description"},
		{Name: "default"},
	},
}
