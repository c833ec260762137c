package tools

import "fmt"

// SchemaError reports a declared signature that cannot be described to
// the model. It surfaces while building descriptors, before any network
// activity.
type SchemaError struct {
	Function string
	Param    string
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("tool %s: parameter %s: %s", e.Function, e.Param, e.Reason)
}

// UnknownToolError reports a model request for a tool that is not in the
// active registry.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// InvalidArgumentsError reports tool-call arguments that fail to decode
// or do not match the declared parameters.
type InvalidArgumentsError struct {
	Tool   string
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("tool %s: invalid arguments: %s", e.Tool, e.Reason)
}
