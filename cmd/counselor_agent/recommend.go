package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohan/ai-counselor/internal/catalog"
	"github.com/rohan/ai-counselor/internal/config"
	"github.com/rohan/ai-counselor/internal/counseling"
	"github.com/rohan/ai-counselor/internal/llm"
	"github.com/rohan/ai-counselor/internal/observability"
	"github.com/rohan/ai-counselor/internal/types"
)

var (
	recommendProfile string
	recommendVerbose bool
	recommendTimeout time.Duration
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Classify universities into Dream/Target/Safe for a profile",
	Long:  `Run the university classification workflow against the built-in catalog using a student profile loaded from a JSON file, and print the resulting Dream/Target/Safe buckets.`,
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recommendProfile, "profile", "", "Path to a JSON profile file (required)")
	recommendCmd.Flags().BoolVarP(&recommendVerbose, "verbose", "v", false, "Print per-attempt workflow details")
	recommendCmd.Flags().DurationVar(&recommendTimeout, "timeout", 2*time.Minute, "Overall timeout for the workflow")
	_ = recommendCmd.MarkFlagRequired("profile")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(_ *cobra.Command, _ []string) error {
	profile, err := loadProfile(recommendProfile)
	if err != nil {
		return err
	}

	client, err := newLLMClient()
	if err != nil {
		return err
	}
	defer client.Close()

	universities, err := catalog.All()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), recommendTimeout)
	defer cancel()

	buckets, state := counseling.ClassifyUniversities(ctx, client, *profile, catalog.Candidates(universities))

	printer := observability.NewPrinter(os.Stdout)
	if recommendVerbose {
		printer.PrintWorkflow(state)
	}
	printer.PrintRecommendation(buckets)

	if state.Exhausted {
		fmt.Fprintln(os.Stderr, "Warning: classification fell back to empty buckets after repeated invalid responses")
	}
	return nil
}

// loadProfile reads and validates a student profile from a JSON file.
func loadProfile(path string) (*types.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}
	var profile types.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	return &profile, nil
}

// newLLMClient builds a Gemini client from the environment.
func newLLMClient() (llm.Client, error) {
	cfg := &config.Config{}
	cfg.FromEnv()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	return llm.NewClient(context.Background(), llm.DefaultConfig(), cfg.APIKey)
}
