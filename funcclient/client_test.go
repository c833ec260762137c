package funcclient

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/jimmymills/llmfunctionclient/llm"
	"github.com/jimmymills/llmfunctionclient/tools"
)

// scriptedClient plays back canned results and records every request it
// receives. When the script runs out, the last result repeats.
type scriptedClient struct {
	results  []llm.Result
	err      error
	requests []llm.Request
}

func (s *scriptedClient) Chat(_ context.Context, req llm.Request) (llm.Result, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return llm.Result{}, s.err
	}
	if len(s.results) == 0 {
		return llm.Result{}, errors.New("script exhausted")
	}
	res := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return res, nil
}

func testAdd() tools.Function {
	return tools.Function{
		Name: "add",
		Doc:  "Add two numbers.\na: first\nb: second",
		Params: []tools.Param{
			{Name: "a", Kind: tools.Integer},
			{Name: "b", Kind: tools.Integer},
		},
		Run: func(_ context.Context, args tools.Args) (string, error) {
			return strconv.Itoa(args.Int("a") + args.Int("b")), nil
		},
	}
}

func toolCall(id, name, args string) llm.ToolCall {
	return llm.ToolCall{ID: id, Type: "function", Function: llm.FunctionCall{Name: name, Arguments: args}}
}

func TestSendMessagePlainText(t *testing.T) {
	fake := &scriptedClient{results: []llm.Result{{Text: "hello there"}}}
	c := New(fake, "test-model", []tools.Function{testAdd()})

	got, err := c.SendMessage(context.Background(), "hi")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("got %q, want %q", got, "hello there")
	}
	if len(fake.requests) != 1 {
		t.Fatalf("round-trips = %d, want 1", len(fake.requests))
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("conversation length = %d, want 2", len(msgs))
	}
	if msgs[0].Role != llm.RoleUser || msgs[0].Content != "hi" {
		t.Fatalf("first message = %+v", msgs[0])
	}
	if msgs[1].Role != llm.RoleAssistant || msgs[1].Content != "hello there" {
		t.Fatalf("second message = %+v", msgs[1])
	}
}

func TestSendMessageDispatchesToolCallsInOrder(t *testing.T) {
	fake := &scriptedClient{results: []llm.Result{
		{ToolCalls: []llm.ToolCall{
			toolCall("call_1", "add", `{"a":1,"b":2}`),
			toolCall("call_2", "add", `{"a":10,"b":20}`),
		}},
		{Text: "the sums are 3 and 30"},
	}}
	c := New(fake, "test-model", []tools.Function{testAdd()})

	got, err := c.SendMessage(context.Background(), "add some numbers")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if got != "the sums are 3 and 30" {
		t.Fatalf("got %q", got)
	}
	if len(fake.requests) != 2 {
		t.Fatalf("round-trips = %d, want 2", len(fake.requests))
	}

	// Both function results must be present, in call order, in the
	// second request.
	second := fake.requests[1].Messages
	if len(second) != 3 {
		t.Fatalf("second request carries %d messages, want 3", len(second))
	}
	first, next := second[1], second[2]
	if first.Role != llm.RoleFunction || first.ToolCallID != "call_1" || first.Name != "add" || first.Content != "3" {
		t.Fatalf("first result = %+v", first)
	}
	if next.Role != llm.RoleFunction || next.ToolCallID != "call_2" || next.Content != "30" {
		t.Fatalf("second result = %+v", next)
	}
	if fake.requests[1].ToolChoice != nil {
		t.Fatal("second request must not carry a forced directive")
	}

	m := c.LastMetrics()
	if m.Rounds != 2 || m.ToolCalls != 2 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestSendMessageForcedFunctionFirstTurnOnly(t *testing.T) {
	fake := &scriptedClient{results: []llm.Result{
		{ToolCalls: []llm.ToolCall{toolCall("call_1", "add", `{"a":2,"b":2}`)}},
		{Text: "4"},
	}}
	c := New(fake, "test-model", []tools.Function{testAdd()})

	if _, err := c.SendMessage(context.Background(), "force it", WithForceTool(testAdd())); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if len(fake.requests) != 2 {
		t.Fatalf("round-trips = %d, want 2", len(fake.requests))
	}

	forced := fake.requests[0].ToolChoice
	if forced == nil || forced.Function.Name != "add" || forced.Type != "function" {
		t.Fatalf("turn 0 directive = %+v", forced)
	}
	if fake.requests[1].ToolChoice != nil {
		t.Fatal("turn 1 must not carry a forced directive")
	}
}

func TestSendMessageTurnBudgetSoftCutoff(t *testing.T) {
	// The model perpetually wants tool calls; the script's last result
	// repeats forever.
	fake := &scriptedClient{results: []llm.Result{
		{ToolCalls: []llm.ToolCall{toolCall("call_1", "add", `{"a":1,"b":1}`)}},
	}}
	c := New(fake, "test-model", []tools.Function{testAdd()})

	got, err := c.SendMessage(context.Background(), "loop forever", WithTurnBudget(1))
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if got != "2" {
		t.Fatalf("got %q, want the last tool result %q", got, "2")
	}
	if len(fake.requests) != 1 {
		t.Fatalf("round-trips = %d, want 1", len(fake.requests))
	}
	last := c.Messages()[c.conv.Len()-1]
	if last.Role != llm.RoleFunction || last.Content != "2" {
		t.Fatalf("last message = %+v", last)
	}
}

func TestSendMessageSchemaErrorBeforeNetwork(t *testing.T) {
	fake := &scriptedClient{results: []llm.Result{{Text: "never reached"}}}
	bad := tools.Function{
		Name:   "bad",
		Params: []tools.Param{{Name: "flag", Kind: tools.Kind("boolean")}},
	}
	c := New(fake, "test-model", []tools.Function{bad})

	_, err := c.SendMessage(context.Background(), "hello")
	var schemaErr *tools.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(fake.requests) != 0 {
		t.Fatalf("network round-trips before schema check: %d", len(fake.requests))
	}
}

func TestSendMessageUpstreamErrorEscalates(t *testing.T) {
	boom := errors.New("429 too many requests")
	fake := &scriptedClient{err: boom}
	c := New(fake, "test-model", nil)

	_, err := c.SendMessage(context.Background(), "hi")
	if !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	// Exactly one attempt; upstream failures are never retried.
	if len(fake.requests) != 1 {
		t.Fatalf("round-trips = %d, want 1", len(fake.requests))
	}
}

func TestSendMessageDispatchFailuresFedBackToModel(t *testing.T) {
	cases := []struct {
		name string
		call llm.ToolCall
	}{
		{name: "unknown_tool", call: toolCall("call_1", "no_such_tool", `{}`)},
		{name: "invalid_arguments", call: toolCall("call_1", "add", `{"a":"one","b":2}`)},
		{name: "tool_run_error", call: toolCall("call_1", "explode", `{}`)},
	}

	explode := tools.Function{
		Name: "explode",
		Run: func(context.Context, tools.Args) (string, error) {
			return "", errors.New("kaboom")
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &scriptedClient{results: []llm.Result{
				{ToolCalls: []llm.ToolCall{tc.call}},
				{Text: "recovered"},
			}}
			c := New(fake, "test-model", []tools.Function{testAdd(), explode})

			got, err := c.SendMessage(context.Background(), "go")
			if err != nil {
				t.Fatalf("dispatch failure escalated: %v", err)
			}
			if got != "recovered" {
				t.Fatalf("got %q, want recovered", got)
			}

			result := fake.requests[1].Messages[1]
			if result.Role != llm.RoleFunction || result.ToolCallID != "call_1" {
				t.Fatalf("result message = %+v", result)
			}
			if len(result.Content) < len("error: ") || result.Content[:7] != "error: " {
				t.Fatalf("result content = %q, want error: prefix", result.Content)
			}
		})
	}
}

func TestSendMessageExplicitFunctionsOverrideDefaults(t *testing.T) {
	fake := &scriptedClient{results: []llm.Result{{Text: "ok"}}}
	other := tools.Function{Name: "other", Run: func(context.Context, tools.Args) (string, error) { return "", nil }}
	c := New(fake, "test-model", []tools.Function{testAdd()})

	if _, err := c.SendMessage(context.Background(), "hi", WithFunctions(other)); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	sent := fake.requests[0].Tools
	if len(sent) != 1 || sent[0].Function.Name != "other" {
		t.Fatalf("tools sent = %+v", sent)
	}
}

func TestSendMessageDescriptorsRebuiltEachCall(t *testing.T) {
	fake := &scriptedClient{results: []llm.Result{{Text: "ok"}}}
	c := New(fake, "test-model", []tools.Function{testAdd()})

	for i := 0; i < 2; i++ {
		if _, err := c.SendMessage(context.Background(), "ping"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if len(fake.requests) != 2 {
		t.Fatalf("round-trips = %d, want 2", len(fake.requests))
	}
	for i, req := range fake.requests {
		if len(req.Tools) != 1 || req.Tools[0].Function.Name != "add" {
			t.Fatalf("request %d tools = %+v", i, req.Tools)
		}
	}
}

func TestSendMessageEmptyContentAppendsNothing(t *testing.T) {
	fake := &scriptedClient{results: []llm.Result{{Text: "continuing"}}}
	c := New(fake, "test-model", nil,
		WithInitialMessages(llm.Message{Role: llm.RoleUser, Content: "seeded"}))

	got, err := c.SendMessage(context.Background(), "")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if got != "continuing" {
		t.Fatalf("got %q", got)
	}
	if len(fake.requests[0].Messages) != 1 {
		t.Fatalf("request messages = %+v", fake.requests[0].Messages)
	}
}

func TestAddMessagePersistsAcrossCalls(t *testing.T) {
	fake := &scriptedClient{results: []llm.Result{{Text: "first"}, {Text: "second"}}}
	c := New(fake, "test-model", nil)

	c.AddMessage(llm.RoleSystem, "answer tersely")
	if _, err := c.SendMessage(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SendMessage(context.Background(), "two"); err != nil {
		t.Fatal(err)
	}

	// system + user + assistant + user + assistant
	if got := len(c.Messages()); got != 5 {
		t.Fatalf("conversation length = %d, want 5", got)
	}
	secondReq := fake.requests[1].Messages
	if secondReq[0].Role != llm.RoleSystem || secondReq[0].Content != "answer tersely" {
		t.Fatalf("system message lost: %+v", secondReq[0])
	}
}

func TestSendMessageRoleOverride(t *testing.T) {
	fake := &scriptedClient{results: []llm.Result{{Text: "noted"}}}
	c := New(fake, "test-model", nil)

	if _, err := c.SendMessage(context.Background(), "context dump", WithRole(llm.RoleSystem)); err != nil {
		t.Fatal(err)
	}
	if got := fake.requests[0].Messages[0].Role; got != llm.RoleSystem {
		t.Fatalf("role = %q, want system", got)
	}
}
