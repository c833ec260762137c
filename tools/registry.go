package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jimmymills/llmfunctionclient/llm"
)

// Registry maps tool names to their functions, preserving registration
// order. Registering a name twice replaces the earlier definition while
// keeping its position: the last registration wins.
type Registry struct {
	order []string
	funcs map[string]Function
}

// NewRegistry builds a registry from the ordered function list.
func NewRegistry(funcs ...Function) *Registry {
	r := &Registry{funcs: make(map[string]Function, len(funcs))}
	for _, fn := range funcs {
		r.Register(fn)
	}
	return r
}

func (r *Registry) Register(fn Function) {
	if _, ok := r.funcs[fn.Name]; !ok {
		r.order = append(r.order, fn.Name)
	}
	r.funcs[fn.Name] = fn
}

// Lookup returns the named function or an UnknownToolError.
func (r *Registry) Lookup(name string) (Function, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return Function{}, &UnknownToolError{Name: name}
	}
	return fn, nil
}

// Functions returns the registered functions in registry order.
func (r *Registry) Functions() []Function {
	out := make([]Function, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.funcs[name])
	}
	return out
}

func (r *Registry) Len() int { return len(r.order) }

// Descriptors builds fresh wire descriptors for every registered
// function, in registry order.
func (r *Registry) Descriptors() ([]llm.Tool, error) {
	out := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		tool, err := Descriptor(r.funcs[name])
		if err != nil {
			return nil, err
		}
		out = append(out, tool)
	}
	return out, nil
}

// Dispatch decodes argsJSON against the named function's declared
// parameters, fills defaults, and invokes it. Decode failures, unknown
// keys, missing required keys, and mistyped values surface as
// InvalidArgumentsError.
func (r *Registry) Dispatch(ctx context.Context, name, argsJSON string) (string, error) {
	fn, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	args, err := decodeArgs(fn, argsJSON)
	if err != nil {
		return "", err
	}
	return fn.Run(ctx, args)
}

func decodeArgs(fn Function, argsJSON string) (Args, error) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(argsJSON), &raw); err != nil {
		return nil, &InvalidArgumentsError{Tool: fn.Name, Reason: fmt.Sprintf("decode arguments: %v", err)}
	}

	declared := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		declared[p.Name] = true
	}
	for key := range raw {
		if !declared[key] {
			return nil, &InvalidArgumentsError{Tool: fn.Name, Reason: fmt.Sprintf("unexpected key %q", key)}
		}
	}

	args := make(Args, len(fn.Params))
	for _, p := range fn.Params {
		value, ok := raw[p.Name]
		if !ok {
			if p.Default == nil {
				return nil, &InvalidArgumentsError{Tool: fn.Name, Reason: fmt.Sprintf("missing required key %q", p.Name)}
			}
			args[p.Name] = p.Default
			continue
		}
		decoded, err := decodeValue(fn.Name, p, value)
		if err != nil {
			return nil, err
		}
		args[p.Name] = decoded
	}
	return args, nil
}

func decodeValue(tool string, p Param, raw json.RawMessage) (any, error) {
	// Enumerations are advertised by member name, so the value arrives as
	// a name string regardless of the base kind.
	if len(p.Enum) > 0 {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &InvalidArgumentsError{Tool: tool, Reason: fmt.Sprintf("key %q: expected enum member name", p.Name)}
		}
		for _, member := range p.Enum {
			if member == s {
				return s, nil
			}
		}
		return nil, &InvalidArgumentsError{Tool: tool, Reason: fmt.Sprintf("key %q: %q is not a member", p.Name, s)}
	}

	switch p.Kind {
	case String:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &InvalidArgumentsError{Tool: tool, Reason: fmt.Sprintf("key %q: expected string", p.Name)}
		}
		return s, nil
	case Integer:
		// Decode through UseNumber so a quoted "1" is seen as a string
		// and rejected.
		var v any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, &InvalidArgumentsError{Tool: tool, Reason: fmt.Sprintf("key %q: expected integer", p.Name)}
		}
		n, ok := v.(json.Number)
		if !ok {
			return nil, &InvalidArgumentsError{Tool: tool, Reason: fmt.Sprintf("key %q: expected integer", p.Name)}
		}
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return nil, &InvalidArgumentsError{Tool: tool, Reason: fmt.Sprintf("key %q: expected integer, got %s", p.Name, n.String())}
		}
		return int(i), nil
	default:
		// Descriptor building rejects other kinds before dispatch can run.
		return nil, &InvalidArgumentsError{Tool: tool, Reason: fmt.Sprintf("key %q: unsupported kind %q", p.Name, string(p.Kind))}
	}
}
