package counseling

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rohan/ai-counselor/internal/llm"
	"github.com/rohan/ai-counselor/internal/types"
)

// DashboardRefresh bundles the two dashboard workflows' results.
type DashboardRefresh struct {
	Strength       *types.ProfileStrength
	SuggestedTasks []string
}

// RefreshDashboard runs the profile-strength and task-suggestion workflows
// concurrently. Each workflow owns its own state, so the only coordination
// needed is the join; neither workflow can fail.
func RefreshDashboard(ctx context.Context, client llm.Client, profile types.Profile, stage string, existingTasks []string) *DashboardRefresh {
	out := &DashboardRefresh{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Strength, _ = EvaluateProfileStrength(ctx, client, profile)
		return nil
	})
	g.Go(func() error {
		out.SuggestedTasks, _ = SuggestTasks(ctx, client, profile, stage, existingTasks)
		return nil
	})
	_ = g.Wait()

	return out
}
