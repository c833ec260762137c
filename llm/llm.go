// Package llm defines the provider-neutral chat types exchanged with a
// model-serving API and the client contract implemented by providers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	// RoleFunction carries the result of one tool call back to the model.
	RoleFunction = "function"
)

// Message is one entry in a conversation, in the OpenAI chat format.
// ToolCallID and Name are set only on function-result messages.
type Message struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// ToolCall is a model-issued request to invoke one tool, carrying a
// correlation id and JSON-encoded arguments.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type,omitempty"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Tool is a function descriptor in the OpenAI tools format.
type Tool struct {
	Type     string       `json:"type"`
	Function FunctionSpec `json:"function"`
}

// FunctionSpec describes one callable function to the model.
type FunctionSpec struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Schema is the parameter object schema carried by a descriptor.
// Properties and Required are always present on the wire, even when empty.
type Schema struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Required   []string   `json:"required"`
}

// Property describes a single parameter. For enumerations, Enum lists the
// symbolic member names while Type stays the member's base type.
type Property struct {
	Type        string   `json:"type"`
	Enum        []string `json:"enum,omitempty"`
	Description string   `json:"description,omitempty"`
}

// NamedProperty pairs a parameter name with its schema.
type NamedProperty struct {
	Name string
	Property
}

// Properties is a name-to-property mapping that marshals as a JSON object
// preserving declaration order. A plain map would sort keys.
type Properties []NamedProperty

func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, np := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(np.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		prop, err := json.Marshal(np.Property)
		if err != nil {
			return nil, err
		}
		buf.Write(prop)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the property with the given name.
func (p Properties) Get(name string) (Property, bool) {
	for _, np := range p {
		if np.Name == name {
			return np.Property, true
		}
	}
	return Property{}, false
}

// ToolChoice forces the model to call one named tool.
type ToolChoice struct {
	Type     string         `json:"type"`
	Function ToolChoiceFunc `json:"function"`
}

type ToolChoiceFunc struct {
	Name string `json:"name"`
}

// ForceTool builds the directive constraining the model's next response
// to a call of the named tool.
func ForceTool(name string) *ToolChoice {
	return &ToolChoice{Type: "function", Function: ToolChoiceFunc{Name: name}}
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Request is one round-trip to the model: the full conversation so far
// plus the active tool descriptors. ToolChoice is set on forced turns only.
type Request struct {
	Model      string
	Messages   []Message
	Tools      []Tool
	ToolChoice *ToolChoice
}

// Result is the classified model response: either final text or one or
// more tool calls to dispatch.
type Result struct {
	Text      string
	ToolCalls []ToolCall
	Usage     Usage
	Duration  time.Duration
}

type Client interface {
	Chat(ctx context.Context, req Request) (Result, error)
}
