// Package builtin provides ready-made functions covering every
// supported parameter shape: none, required, defaulted, and enumerated.
package builtin

import "github.com/jimmymills/llmfunctionclient/tools"

// All returns the builtin function set in a stable order.
func All() []tools.Function {
	return []tools.Function{
		CurrentTime(),
		Add(),
		ConvertTemperature(),
	}
}
