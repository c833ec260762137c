package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/jimmymills/llmfunctionclient/tools"
)

// CurrentTime reports the current wall-clock time.
func CurrentTime() tools.Function {
	return tools.Function{
		Name: "current_time",
		Doc: `Returns the current date and time.
timezone: IANA time zone name, e.g. Europe/Berlin.`,
		Params: []tools.Param{
			{Name: "timezone", Kind: tools.String, Default: "UTC"},
		},
		Run: func(_ context.Context, args tools.Args) (string, error) {
			loc, err := time.LoadLocation(args.Str("timezone"))
			if err != nil {
				return "", fmt.Errorf("load time zone: %w", err)
			}
			return time.Now().In(loc).Format(time.RFC3339), nil
		},
	}
}
