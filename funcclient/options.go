package funcclient

import (
	"log/slog"

	"github.com/jimmymills/llmfunctionclient/llm"
	"github.com/jimmymills/llmfunctionclient/tools"
)

// Option configures a Client at construction time.
type Option func(*Client)

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithLogOptions(o LogOptions) Option {
	return func(c *Client) {
		c.logOpts = normalizeLogOptions(o)
	}
}

// WithInitialMessages seeds the conversation, typically with a system
// prompt.
func WithInitialMessages(messages ...llm.Message) Option {
	return func(c *Client) {
		c.conv = NewConversation(messages...)
	}
}

// WithMaxTurns sets the default turn budget for SendMessage calls.
func WithMaxTurns(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTurns = n
		}
	}
}

// SendOption configures a single SendMessage call.
type SendOption func(*sendOptions)

type sendOptions struct {
	role     string
	model    string
	funcs    []tools.Function
	force    string
	maxTurns int
}

// WithRole overrides the role of the appended message (default "user").
func WithRole(role string) SendOption {
	return func(o *sendOptions) {
		if role != "" {
			o.role = role
		}
	}
}

// WithModel overrides the client's model for this call.
func WithModel(model string) SendOption {
	return func(o *sendOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithFunctions replaces the active tool list for this call.
func WithFunctions(funcs ...tools.Function) SendOption {
	return func(o *sendOptions) {
		o.funcs = funcs
	}
}

// WithForceFunction constrains the model's first response of this call
// to invoke the named tool. Later turns are unconstrained.
func WithForceFunction(name string) SendOption {
	return func(o *sendOptions) {
		o.force = name
	}
}

// WithForceTool is WithForceFunction for a function reference.
func WithForceTool(fn tools.Function) SendOption {
	return WithForceFunction(fn.Name)
}

// WithTurnBudget caps the number of model round-trips for this call.
func WithTurnBudget(n int) SendOption {
	return func(o *sendOptions) {
		o.maxTurns = n
	}
}
