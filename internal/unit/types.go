package unit

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/zclconf/go-cty/cty"
)

// TypeFromExpr converts an HCL type expression (string, number, bool, any,
// list(string), object({...}), ...) into its cty type constraint. `any`
// decodes to the dynamic pseudo-type, which the dispatcher treats as
// permissive.
func TypeFromExpr(expr hcl.Expression) (cty.Type, hcl.Diagnostics) {
	return typeexpr.TypeConstraint(expr)
}
