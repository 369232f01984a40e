package counseling

import (
	"context"
	"encoding/json"

	"github.com/rohan/ai-counselor/internal/llm"
	"github.com/rohan/ai-counselor/internal/prompts"
	"github.com/rohan/ai-counselor/internal/types"
)

// strengthTask scores the profile on academics, exams, and SOP readiness.
// Single attempt: a degraded default beats a second billed call here.
type strengthTask struct {
	profile types.Profile
}

func (t *strengthTask) Name() string { return "profile-strength" }

func (t *strengthTask) BuildRequest(prevErr string) llm.CompletionRequest {
	user := prompts.Format(prompts.MustGet(promptFile, "profile-strength"), profileData(t.profile))
	return llm.CompletionRequest{
		SystemPrompt: prompts.MustGet(promptFile, "profile-strength-system"),
		UserPrompt:   withRetrySuffix(user, prevErr),
		Temperature:  0,
		JSONMode:     true,
		Tier:         llm.TierLite,
	}
}

func (t *strengthTask) Validate(raw string) (any, error) {
	var strength types.ProfileStrength
	if err := json.Unmarshal([]byte(raw), &strength); err != nil {
		return nil, &ParseError{Message: "response is not a strength object", Cause: err}
	}
	// All three ratings must be present; this also rejects the empty-object
	// sentinel a failed provider call leaves behind.
	if strength.Academics == "" || strength.Exams == "" || strength.SOP == "" {
		return nil, &SchemaError{Message: "missing required fields: academics, exams, sop"}
	}
	return &strength, nil
}

func (t *strengthTask) Fallback() any {
	return &types.ProfileStrength{
		Academics: "Average",
		Exams:     "Not Started",
		SOP:       "Not started",
	}
}

// EvaluateProfileStrength rates the student's profile. Always returns a
// well-formed assessment.
func EvaluateProfileStrength(ctx context.Context, client llm.Client, profile types.Profile) (*types.ProfileStrength, *WorkflowState) {
	task := &strengthTask{profile: profile}
	result, state := Run(ctx, client, task, 1)
	strength, _ := result.(*types.ProfileStrength)
	return strength, state
}
