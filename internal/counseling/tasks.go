package counseling

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rohan/ai-counselor/internal/llm"
	"github.com/rohan/ai-counselor/internal/prompts"
	"github.com/rohan/ai-counselor/internal/types"
)

// suggestTasksTask proposes next-step to-do items for the student.
// Single attempt, like strengthTask.
type suggestTasksTask struct {
	profile  types.Profile
	stage    string
	existing []string
}

func (t *suggestTasksTask) Name() string { return "suggest-tasks" }

func (t *suggestTasksTask) BuildRequest(prevErr string) llm.CompletionRequest {
	existing := "None"
	if len(t.existing) > 0 {
		existing = strings.Join(t.existing, ", ")
	}

	data := profileData(t.profile)
	data["CurrentStage"] = orNA(t.stage)
	data["ExistingTasks"] = existing

	user := prompts.Format(prompts.MustGet(promptFile, "suggest-tasks"), data)

	return llm.CompletionRequest{
		SystemPrompt: prompts.MustGet(promptFile, "suggest-tasks-system"),
		UserPrompt:   withRetrySuffix(user, prevErr),
		Temperature:  0.7,
		// The model returns a bare JSON array; Gemini's JSON mode expects an
		// object, so the fence-stripping in the adapter does the cleanup.
		JSONMode: false,
		Tier:     llm.TierLite,
	}
}

func (t *suggestTasksTask) Validate(raw string) (any, error) {
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &ParseError{Message: "response is not a JSON array", Cause: err}
	}
	titles := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			titles = append(titles, s)
		}
	}
	return titles, nil
}

func (t *suggestTasksTask) Fallback() any {
	return []string{"Complete your profile information"}
}

// SuggestTasks proposes 3-5 actionable tasks for the student's current stage,
// excluding titles already on their list. Always returns at least one title.
func SuggestTasks(ctx context.Context, client llm.Client, profile types.Profile, stage string, existing []string) ([]string, *WorkflowState) {
	task := &suggestTasksTask{profile: profile, stage: stage, existing: existing}
	result, state := Run(ctx, client, task, 1)
	titles, _ := result.([]string)
	if len(titles) == 0 {
		titles = []string{"Complete your profile information"}
	}
	return titles, state
}
