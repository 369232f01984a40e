package types

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one message in a conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat action directive types the model may emit.
const (
	ActionCreateTask   = "create_task"
	ActionCompleteTask = "complete_task"
)

// ChatAction is an optional directive embedded in a chat reply.
type ChatAction struct {
	Type   string `json:"type"`
	Title  string `json:"title,omitempty"`
	TaskID string `json:"task_id,omitempty"`
}

// ChatReply is the structured envelope returned for one chat turn.
type ChatReply struct {
	Response         string      `json:"response"`
	SuggestedActions []string    `json:"suggested_actions"`
	Action           *ChatAction `json:"action,omitempty"`
}

// FallbackChatReply returns the degraded reply used when all attempts fail.
func FallbackChatReply() *ChatReply {
	return &ChatReply{
		Response:         "I encountered an error. Please try again.",
		SuggestedActions: []string{},
		Action:           nil,
	}
}
