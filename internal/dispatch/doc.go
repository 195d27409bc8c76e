// Package dispatch validates and executes externally supplied tool calls
// against the registry.
//
// A call is checked against the tool's parameter contract in a fixed order:
// missing required parameters first, then unknown argument names, then type
// conversion of each supplied value into its declared cty type. Only a call
// that passes all three reaches the callable. Failures during the invocation
// itself, panics included, are caught and reported as execution errors;
// nothing a tool does can crash the dispatching process or corrupt the
// registry.
package dispatch
