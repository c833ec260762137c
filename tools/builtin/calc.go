package builtin

import (
	"context"
	"strconv"

	"github.com/jimmymills/llmfunctionclient/tools"
)

// Add sums two integers.
func Add() tools.Function {
	return tools.Function{
		Name: "add",
		Doc: `Add two numbers.
a: first
b: second`,
		Params: []tools.Param{
			{Name: "a", Kind: tools.Integer},
			{Name: "b", Kind: tools.Integer},
		},
		Run: func(_ context.Context, args tools.Args) (string, error) {
			return strconv.Itoa(args.Int("a") + args.Int("b")), nil
		},
	}
}
