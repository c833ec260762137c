// Package tools turns declared local functions into model-facing tool
// descriptors and dispatches the model's tool calls back onto them.
package tools

import "context"

// Kind is the JSON type a parameter maps to on the wire. Only string and
// integer parameters are supported.
type Kind string

const (
	String  Kind = "string"
	Integer Kind = "integer"
)

// Param declares one parameter of a Function, in signature order.
//
// Enum lists the symbolic member names of an enumeration over the base
// Kind, in declaration order. The wire type stays the base kind while
// enum carries the names, even for integer-based enumerations; existing
// consumers depend on that shape.
//
// A nil Default marks the parameter required.
type Param struct {
	Name    string
	Kind    Kind
	Enum    []string
	Default any
}

// Args holds the decoded, validated arguments for one invocation.
// Declared defaults are already filled in. Enumeration values are the
// member names, so Str covers enums of either base kind.
type Args map[string]any

// Str returns the named string argument.
func (a Args) Str(name string) string {
	s, _ := a[name].(string)
	return s
}

// Int returns the named integer argument.
func (a Args) Int(name string) int {
	switch v := a[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

// Function binds a callable to the declarative signature exposed to the
// model.
//
// Doc follows the doc-comment convention of the client: the first
// non-blank line is the tool description, and every following line of
// the form "name: text" describes the named parameter. The last line per
// name wins; other lines are ignored.
type Function struct {
	Name   string
	Doc    string
	Params []Param
	Run    func(ctx context.Context, args Args) (string, error)
}
