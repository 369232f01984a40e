package counseling

import (
	"context"
	"fmt"
	"strings"

	"github.com/rohan/ai-counselor/internal/llm"
	"github.com/rohan/ai-counselor/internal/prompts"
	"github.com/rohan/ai-counselor/internal/types"
)

// chatHistoryWindow is how many recent turns are embedded verbatim.
const chatHistoryWindow = 5

// ChatContext is the payload for one chat turn: the student's message plus
// the read-only context blocks the counselor reasons over.
type ChatContext struct {
	Message     string
	History     []types.ChatTurn
	Locked      []types.ShortlistedUniversity
	Shortlisted []types.ShortlistedUniversity
	ActiveTasks []types.TaskItem
}

type chatTask struct {
	payload ChatContext
}

func (t *chatTask) Name() string { return "chat" }

func (t *chatTask) BuildRequest(prevErr string) llm.CompletionRequest {
	data := map[string]string{
		"Message":                 t.payload.Message,
		"History":                 renderHistory(t.payload.History),
		"LockedUniversities":      renderUniversities(t.payload.Locked),
		"ShortlistedUniversities": renderUniversities(t.payload.Shortlisted),
		"ActiveTasks":             renderTasks(t.payload.ActiveTasks),
	}

	user := prompts.Format(prompts.MustGet(promptFile, "chat"), data)

	return llm.CompletionRequest{
		SystemPrompt: prompts.MustGet(promptFile, "chat-system"),
		UserPrompt:   withRetrySuffix(user, prevErr),
		Temperature:  0.6,
		JSONMode:     true,
		Tier:         llm.TierStandard,
	}
}

func (t *chatTask) Validate(raw string) (any, error) {
	reply, err := ValidateChatReply(raw)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (t *chatTask) Fallback() any {
	return types.FallbackChatReply()
}

// RespondToChat produces one structured counselor reply. It always returns a
// well-formed envelope; on exhaustion the reply is the apology fallback.
func RespondToChat(ctx context.Context, client llm.Client, payload ChatContext) (*types.ChatReply, *WorkflowState) {
	task := &chatTask{payload: payload}
	result, state := Run(ctx, client, task, DefaultMaxAttempts)
	reply, _ := result.(*types.ChatReply)
	return reply, state
}

// renderHistory embeds the last chatHistoryWindow turns verbatim.
func renderHistory(history []types.ChatTurn) string {
	if len(history) == 0 {
		return "None"
	}
	if len(history) > chatHistoryWindow {
		history = history[len(history)-chatHistoryWindow:]
	}
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return strings.Join(lines, "\n")
}

func renderUniversities(unis []types.ShortlistedUniversity) string {
	if len(unis) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(unis))
	for _, u := range unis {
		lines = append(lines, fmt.Sprintf("- %s, %s (%s)", u.Name, u.Country, u.Category))
	}
	return strings.Join(lines, "\n")
}

func renderTasks(tasks []types.TaskItem) string {
	if len(tasks) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(tasks))
	for _, task := range tasks {
		status := " "
		if task.Completed {
			status = "x"
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s (id: %s)", status, task.Title, task.ID))
	}
	return strings.Join(lines, "\n")
}
