package funcclient

import (
	"time"

	"github.com/jimmymills/llmfunctionclient/llm"
)

// Metrics accumulates counters over one SendMessage call.
type Metrics struct {
	Rounds       int
	ToolCalls    int
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	StartTime    time.Time
	ElapsedMs    int64
}

func (m *Metrics) addUsage(u llm.Usage) {
	m.InputTokens += u.InputTokens
	m.OutputTokens += u.OutputTokens
	m.TotalTokens += u.TotalTokens
	if m.TotalTokens == 0 {
		m.TotalTokens = m.InputTokens + m.OutputTokens
	}
}
