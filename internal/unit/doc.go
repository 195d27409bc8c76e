// Package unit defines the loadable unit: one discovered .hcl source file
// treated as an independent module of callable tools.
//
// The package owns the first two stages of the rebuild pipeline. The scanner
// walks the configured root directories and yields descriptors in a
// deterministic order, verifying that every candidate path really lives
// under its root. The validator parses a unit's source into an HCL syntax
// tree without evaluating anything in it, so structurally broken files are
// rejected before they ever run.
package unit
