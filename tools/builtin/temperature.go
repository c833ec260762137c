package builtin

import (
	"context"
	"fmt"

	"github.com/jimmymills/llmfunctionclient/tools"
)

// ConvertTemperature converts between celsius and fahrenheit.
func ConvertTemperature() tools.Function {
	return tools.Function{
		Name: "convert_temperature",
		Doc: `Converts a temperature to the other scale.
value: temperature to convert
unit: scale of the given value`,
		Params: []tools.Param{
			{Name: "value", Kind: tools.Integer},
			{Name: "unit", Kind: tools.String, Enum: []string{"celsius", "fahrenheit"}, Default: "celsius"},
		},
		Run: func(_ context.Context, args tools.Args) (string, error) {
			value := args.Int("value")
			switch args.Str("unit") {
			case "celsius":
				return fmt.Sprintf("%.1f fahrenheit", float64(value)*9/5+32), nil
			case "fahrenheit":
				return fmt.Sprintf("%.1f celsius", (float64(value)-32)*5/9), nil
			default:
				return "", fmt.Errorf("unknown unit %q", args.Str("unit"))
			}
		},
	}
}
