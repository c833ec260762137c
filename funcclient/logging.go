package funcclient

import (
	"encoding/json"
	"strings"
)

// LogOptions controls what the dispatch loop writes to its logger.
// Tool parameters are off by default since they may carry user data.
type LogOptions struct {
	IncludeToolParams bool
	MaxContentChars   int
	RedactKeys        []string
}

func DefaultLogOptions() LogOptions {
	return LogOptions{
		IncludeToolParams: false,
		MaxContentChars:   2000,
		RedactKeys: []string{
			"api_key",
			"apikey",
			"authorization",
			"password",
			"secret",
			"token",
		},
	}
}

func normalizeLogOptions(o LogOptions) LogOptions {
	d := DefaultLogOptions()
	if o.MaxContentChars <= 0 {
		o.MaxContentChars = d.MaxContentChars
	}
	if len(o.RedactKeys) == 0 {
		o.RedactKeys = d.RedactKeys
	}
	return o
}

func truncateString(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

func shouldRedactKey(key string, redactKeys []string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return false
	}
	for _, rk := range redactKeys {
		if strings.ToLower(strings.TrimSpace(rk)) == k {
			return true
		}
	}
	switch {
	case strings.Contains(k, "token"):
		return true
	case strings.Contains(k, "secret"):
		return true
	case strings.Contains(k, "password"):
		return true
	case strings.Contains(k, "api_key"):
		return true
	}
	return false
}

// redactParams renders a tool call's JSON arguments for logging with
// sensitive keys masked and long values trimmed.
func redactParams(argsJSON string, opts LogOptions) string {
	var params map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &params); err != nil {
		return truncateString(argsJSON, opts.MaxContentChars)
	}
	for key, value := range params {
		if shouldRedactKey(key, opts.RedactKeys) {
			params[key] = "[redacted]"
			continue
		}
		if s, ok := value.(string); ok {
			params[key] = truncateString(s, opts.MaxContentChars)
		}
	}
	out, err := json.Marshal(params)
	if err != nil {
		return truncateString(argsJSON, opts.MaxContentChars)
	}
	return truncateString(string(out), opts.MaxContentChars)
}
