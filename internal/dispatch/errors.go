package dispatch

import "fmt"

// NotFoundError reports a call naming a tool absent from the registry.
type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found in registry", e.Tool)
}

// MissingArgumentError reports a required parameter the caller did not
// supply.
type MissingArgumentError struct {
	Tool  string
	Param string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("tool %q: missing required argument %q", e.Tool, e.Param)
}

// UnexpectedArgumentError reports a supplied argument name that is not part
// of the parameter contract.
type UnexpectedArgumentError struct {
	Tool string
	Arg  string
}

func (e *UnexpectedArgumentError) Error() string {
	return fmt.Sprintf("tool %q: unexpected argument %q", e.Tool, e.Arg)
}

// TypeMismatchError reports a supplied value that cannot be converted to the
// parameter's declared type.
type TypeMismatchError struct {
	Tool     string
	Param    string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("tool %q: argument %q must be %s, got %s", e.Tool, e.Param, e.Expected, e.Actual)
}

// ExecutionError wraps a failure raised by the tool itself, as opposed to an
// argument-validation failure.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
