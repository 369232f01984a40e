package counseling

import (
	"context"
	"encoding/json"

	"github.com/rohan/ai-counselor/internal/llm"
	"github.com/rohan/ai-counselor/internal/prompts"
	"github.com/rohan/ai-counselor/internal/types"
)

// unrankedSentinel is the rank sent to the model when a candidate has none.
const unrankedSentinel = 999

// recommendationTask classifies a candidate list into Dream/Target/Safe.
type recommendationTask struct {
	profile    types.Profile
	candidates []types.UniversityCandidate
}

func (t *recommendationTask) Name() string { return "recommendation" }

func (t *recommendationTask) BuildRequest(prevErr string) llm.CompletionRequest {
	// The prompt embeds exactly the supplied candidate list; selection and
	// ordering are the caller's responsibility.
	simplified := make([]types.UniversityCandidate, 0, len(t.candidates))
	for _, c := range t.candidates {
		if c.Rank == 0 {
			c.Rank = unrankedSentinel
		}
		simplified = append(simplified, c)
	}
	universities, _ := json.Marshal(simplified)

	data := profileData(t.profile)
	data["Universities"] = string(universities)

	user := prompts.Format(prompts.MustGet(promptFile, "classify-universities"), data)

	return llm.CompletionRequest{
		SystemPrompt: prompts.MustGet(promptFile, "classify-universities-system"),
		UserPrompt:   withRetrySuffix(user, prevErr),
		Temperature:  0.3,
		JSONMode:     true,
		Tier:         llm.TierStandard,
	}
}

func (t *recommendationTask) Validate(raw string) (any, error) {
	parsed, err := ValidateRecommendation(raw)
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

func (t *recommendationTask) Fallback() any {
	return map[string]any{
		types.CategoryDream:  []any{},
		types.CategoryTarget: []any{},
		types.CategorySafe:   []any{},
	}
}

// ClassifyUniversities partitions the candidate list into Dream/Target/Safe
// buckets based on the student's profile. It always returns a well-formed
// bucket map; on exhaustion the buckets are empty.
func ClassifyUniversities(ctx context.Context, client llm.Client, profile types.Profile, candidates []types.UniversityCandidate) (map[string]any, *WorkflowState) {
	task := &recommendationTask{profile: profile, candidates: candidates}
	result, state := Run(ctx, client, task, DefaultMaxAttempts)
	buckets, _ := result.(map[string]any)
	return buckets, state
}
