package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/AJ-Gonzalez/black-orchid/internal/loader"
)

// argToCty converts one transport-decoded argument value into the
// parameter's declared cty type. Values arrive as the output of a JSON
// decoder (string, float64, bool, []any, map[string]any, nil), so the
// round-trip through cty's JSON codec gives a faithful implied type before
// conversion. Untyped parameters accept the implied value as-is.
func argToCty(toolName string, p loader.Param, v any) (cty.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, &TypeMismatchError{
			Tool: toolName, Param: p.Name,
			Expected: p.TypeName(), Actual: fmt.Sprintf("unencodable %T", v),
		}
	}

	implied, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, &TypeMismatchError{
			Tool: toolName, Param: p.Name,
			Expected: p.TypeName(), Actual: fmt.Sprintf("%T", v),
		}
	}

	val, err := ctyjson.Unmarshal(raw, implied)
	if err != nil {
		return cty.NilVal, &TypeMismatchError{
			Tool: toolName, Param: p.Name,
			Expected: p.TypeName(), Actual: implied.FriendlyName(),
		}
	}

	if !p.Typed {
		return val, nil
	}

	converted, err := convert.Convert(val, p.Type)
	if err != nil {
		return cty.NilVal, &TypeMismatchError{
			Tool: toolName, Param: p.Name,
			Expected: p.Type.FriendlyName(), Actual: implied.FriendlyName(),
		}
	}
	return converted, nil
}

// ResultText renders a call result for the transport collaborator: bare
// strings pass through verbatim, everything else is JSON-encoded.
func ResultText(val cty.Value) (string, error) {
	if val.IsNull() {
		return "null", nil
	}
	if val.Type() == cty.String && val.IsKnown() {
		return val.AsString(), nil
	}
	raw, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(raw), nil
}
