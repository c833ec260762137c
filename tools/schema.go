package tools

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jimmymills/llmfunctionclient/llm"
)

var paramDocLine = regexp.MustCompile(`^\s*(\w+):\s*(.*)$`)

// parseDoc splits a doc string into the tool description and the
// per-parameter descriptions. The first non-blank line is the
// description; each following line matching "name: text" sets that
// parameter's description, last occurrence winning.
func parseDoc(doc string) (string, map[string]string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return "", nil
	}
	lines := strings.Split(doc, "\n")
	summary := strings.TrimSpace(lines[0])

	paramDocs := map[string]string{}
	for _, line := range lines[1:] {
		m := paramDocLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		paramDocs[m[1]] = strings.TrimSpace(m[2])
	}
	return summary, paramDocs
}

// Descriptor builds the wire descriptor for fn. Property order follows
// the declared parameter order, as does the required list.
func Descriptor(fn Function) (llm.Tool, error) {
	summary, paramDocs := parseDoc(fn.Doc)

	props := make(llm.Properties, 0, len(fn.Params))
	required := []string{}
	seen := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		if seen[p.Name] {
			return llm.Tool{}, &SchemaError{Function: fn.Name, Param: p.Name, Reason: "duplicate parameter name"}
		}
		seen[p.Name] = true

		switch p.Kind {
		case String, Integer:
		default:
			return llm.Tool{}, &SchemaError{
				Function: fn.Name,
				Param:    p.Name,
				Reason:   fmt.Sprintf("unsupported parameter type %q", string(p.Kind)),
			}
		}

		prop := llm.Property{Type: string(p.Kind)}
		if len(p.Enum) > 0 {
			prop.Enum = append([]string(nil), p.Enum...)
		}
		if desc, ok := paramDocs[p.Name]; ok {
			prop.Description = desc
		}
		props = append(props, llm.NamedProperty{Name: p.Name, Property: prop})

		if p.Default == nil {
			required = append(required, p.Name)
		}
	}

	return llm.Tool{
		Type: "function",
		Function: llm.FunctionSpec{
			Name:        fn.Name,
			Description: summary,
			Parameters: &llm.Schema{
				Type:       "object",
				Properties: props,
				Required:   required,
			},
		},
	}, nil
}
