package unit

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Parse validates a unit's raw source by parsing it into an HCL syntax tree.
// No expression in the file is evaluated. On failure the returned error
// carries the line and column of the first structural problem.
func Parse(name string, src []byte, path string) (*hcl.File, error) {
	file, diags := hclsyntax.ParseConfig(src, path, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("syntax error in %s: %s", name, FormatDiagnostics(diags))
	}
	return file, nil
}

// FormatDiagnostics flattens HCL diagnostics into a single human-readable
// message, keeping the source position of each error when available.
func FormatDiagnostics(diags hcl.Diagnostics) string {
	var parts []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		if diag.Subject != nil {
			msg = fmt.Sprintf("%s (at line %d, column %d)", msg, diag.Subject.Start.Line, diag.Subject.Start.Column)
		}
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return diags.Error()
	}
	return strings.Join(parts, "; ")
}
