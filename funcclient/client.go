// Package funcclient drives multi-turn exchanges between a chat model
// and a fixed set of local functions exposed to it as tools.
package funcclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jimmymills/llmfunctionclient/llm"
	"github.com/jimmymills/llmfunctionclient/tools"
)

// DefaultMaxTurns bounds the number of model round-trips per SendMessage
// call when no explicit budget is given.
const DefaultMaxTurns = 100

// Client owns one conversation and mediates between the model and the
// registered functions: it forwards the model's tool calls, feeds their
// results back, and stops once the model produces a final text answer or
// the turn budget runs out.
//
// A Client is not safe for concurrent use. Callers must serialize
// SendMessage per instance; the conversation is exclusively owned by the
// in-flight call.
type Client struct {
	client   llm.Client
	model    string
	funcs    []tools.Function
	conv     *Conversation
	log      *slog.Logger
	logOpts  LogOptions
	maxTurns int
	metrics  Metrics
}

// New builds a Client talking to the given model with funcs as the
// default tool set.
func New(client llm.Client, model string, funcs []tools.Function, opts ...Option) *Client {
	c := &Client{
		client:   client,
		model:    model,
		funcs:    funcs,
		conv:     NewConversation(),
		log:      slog.Default(),
		logOpts:  DefaultLogOptions(),
		maxTurns: DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddMessage appends a message without contacting the model. Use it to
// seed system prompts or extra context between calls.
func (c *Client) AddMessage(role, content string) {
	c.conv.Append(llm.Message{Role: role, Content: content})
}

// Messages returns a copy of the conversation so far.
func (c *Client) Messages() []llm.Message { return c.conv.Snapshot() }

// LastMetrics reports the counters of the most recent SendMessage call.
func (c *Client) LastMetrics() Metrics { return c.metrics }

// SendMessage appends content (unless empty) and runs the turn loop
// until the model answers in plain text or the turn budget is exhausted.
//
// Descriptors are rebuilt fresh on every call; an unsupported parameter
// declaration aborts with a SchemaError before any network round-trip.
// Errors from the model collaborator abort the call unchanged and are
// never retried. Dispatch-level failures (unknown tool, invalid
// arguments, an error from the function itself) do not abort: they are
// packaged as the function-result message so the model can correct
// itself on the next turn.
//
// When the budget runs out while the model still wants tool calls, the
// content of the last appended message is returned as-is.
func (c *Client) SendMessage(ctx context.Context, content string, opts ...SendOption) (string, error) {
	so := sendOptions{
		role:     llm.RoleUser,
		model:    c.model,
		funcs:    c.funcs,
		maxTurns: c.maxTurns,
	}
	for _, opt := range opts {
		opt(&so)
	}
	if so.maxTurns <= 0 {
		so.maxTurns = DefaultMaxTurns
	}

	if content != "" {
		c.conv.Append(llm.Message{Role: so.role, Content: content})
	}

	registry := tools.NewRegistry(so.funcs...)
	descriptors, err := registry.Descriptors()
	if err != nil {
		return "", err
	}

	c.metrics = Metrics{StartTime: time.Now()}
	defer func() {
		c.metrics.ElapsedMs = time.Since(c.metrics.StartTime).Milliseconds()
	}()

	for turn := 0; turn < so.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("turn %d cancelled: %w", turn, err)
		}

		req := llm.Request{
			Model:    so.model,
			Messages: c.conv.Snapshot(),
			Tools:    descriptors,
		}
		// Forcing applies to the first turn only. Carrying it forward
		// would compel the model to re-invoke the same tool forever.
		if turn == 0 && so.force != "" {
			req.ToolChoice = llm.ForceTool(so.force)
		}

		result, err := c.client.Chat(ctx, req)
		if err != nil {
			return "", fmt.Errorf("chat turn %d: %w", turn, err)
		}
		c.metrics.Rounds++
		c.metrics.addUsage(result.Usage)
		c.log.Debug("llm_round",
			"turn", turn,
			"model", so.model,
			"tool_calls", len(result.ToolCalls),
			"duration_ms", result.Duration.Milliseconds(),
			"total_tokens", result.Usage.TotalTokens,
		)

		if len(result.ToolCalls) == 0 {
			c.conv.Append(llm.Message{Role: llm.RoleAssistant, Content: result.Text})
			return result.Text, nil
		}

		// Execute sequentially, in the order the model returned them, and
		// append one function-result message per call before the next
		// request goes out.
		for _, call := range result.ToolCalls {
			output := c.dispatch(ctx, registry, call)
			c.conv.Append(llm.Message{
				Role:       llm.RoleFunction,
				ToolCallID: call.ID,
				Name:       call.Function.Name,
				Content:    output,
			})
		}
	}

	// Soft cutoff: the budget ran out with tool handling still pending.
	return c.conv.Last(), nil
}

func (c *Client) dispatch(ctx context.Context, registry *tools.Registry, call llm.ToolCall) string {
	start := time.Now()
	c.metrics.ToolCalls++

	attrs := []any{"tool", call.Function.Name, "call_id", call.ID}
	if c.logOpts.IncludeToolParams {
		attrs = append(attrs, "params", redactParams(call.Function.Arguments, c.logOpts))
	}

	output, err := registry.Dispatch(ctx, call.Function.Name, call.Function.Arguments)
	if err != nil {
		var unknown *tools.UnknownToolError
		var invalid *tools.InvalidArgumentsError
		switch {
		case errors.As(err, &unknown), errors.As(err, &invalid):
			c.log.Warn("tool_rejected", append(attrs, "error", err.Error())...)
		default:
			c.log.Warn("tool_failed", append(attrs, "error", err.Error())...)
		}
		return "error: " + err.Error()
	}

	c.log.Info("tool_call", append(attrs,
		"duration_ms", time.Since(start).Milliseconds(),
		"output_chars", len(output),
	)...)
	return output
}
