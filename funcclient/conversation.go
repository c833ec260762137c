package funcclient

import "github.com/jimmymills/llmfunctionclient/llm"

// Conversation is the append-only message log owned by one Client. The
// order is what the model observes; there is no removal or reordering.
type Conversation struct {
	messages []llm.Message
}

func NewConversation(initial ...llm.Message) *Conversation {
	c := &Conversation{}
	c.messages = append(c.messages, initial...)
	return c
}

func (c *Conversation) Append(m llm.Message) {
	c.messages = append(c.messages, m)
}

func (c *Conversation) Len() int { return len(c.messages) }

// Last returns the content of the most recent message, or "" when the
// conversation is empty.
func (c *Conversation) Last() string {
	if len(c.messages) == 0 {
		return ""
	}
	return c.messages[len(c.messages)-1].Content
}

// Snapshot returns a copy of the ordered message sequence for
// transmission to the model.
func (c *Conversation) Snapshot() []llm.Message {
	out := make([]llm.Message, len(c.messages))
	copy(out, c.messages)
	return out
}
