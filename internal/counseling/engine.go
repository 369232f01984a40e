// Package counseling drives the structured-generation workflows behind the
// AI counselor: university classification, chat turns, profile-strength
// scoring, and task suggestion. Every workflow is one bounded
// generate -> validate -> retry -> fallback execution over the LLM client.
package counseling

import (
	"context"
	"errors"

	"github.com/rohan/ai-counselor/internal/llm"
)

// DefaultMaxAttempts bounds the retrying workflows.
const DefaultMaxAttempts = 3

// emptyObjectSentinel replaces the response text when the provider call
// itself fails. It is engineered to fail validation so the attempt is
// absorbed into the normal retry/fallback path instead of surfacing an error.
const emptyObjectSentinel = "{}"

// Task is the strategy a workflow is parameterized by: how to prompt the
// model, how to validate its output, and what to return when every attempt
// is exhausted.
type Task interface {
	// Name identifies the task kind in logs and workflow state.
	Name() string
	// BuildRequest constructs the completion request. prevErr carries the
	// previous attempt's validation diagnostic so the model can self-correct;
	// it is empty on the first attempt.
	BuildRequest(prevErr string) llm.CompletionRequest
	// Validate parses and checks the raw response text. It must be total:
	// malformed input yields an error, never a panic.
	Validate(raw string) (any, error)
	// Fallback returns the safe default used when all attempts fail.
	Fallback() any
}

// AttemptRecord captures one request/response round-trip with the provider.
// Records are append-only and never mutated after creation.
type AttemptRecord struct {
	Attempt         int
	RawResponse     string
	ParseSucceeded  bool
	ValidationError string
}

// WorkflowState is the transient state of one workflow execution. It lives
// for the duration of one Run call and is owned exclusively by it.
type WorkflowState struct {
	Task        string
	MaxAttempts int
	Attempts    []AttemptRecord
	LastError   string
	Result      any
	Exhausted   bool
}

// Calls reports how many provider round-trips the workflow issued.
func (s *WorkflowState) Calls() int {
	return len(s.Attempts)
}

// Run executes one workflow: generate a completion, validate its shape, and
// retry with error feedback until a result validates or maxAttempts is
// reached, at which point the task's fallback is returned. Attempts are
// strictly sequential; a provider failure is substituted with the
// empty-object sentinel rather than propagated. Run never returns an error:
// the contract is a structurally valid result, degraded if necessary.
func Run(ctx context.Context, client llm.Client, task Task, maxAttempts int) (any, *WorkflowState) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	state := &WorkflowState{Task: task.Name(), MaxAttempts: maxAttempts}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req := task.BuildRequest(state.LastError)

		raw, err := client.Complete(ctx, req)
		if err != nil {
			// Named fail-safe: the sentinel cannot validate, so the failure
			// flows through the retry/fallback path below.
			raw = emptyObjectSentinel
		}

		record := AttemptRecord{Attempt: attempt, RawResponse: raw}

		result, verr := task.Validate(raw)
		if verr == nil {
			record.ParseSucceeded = true
			state.Attempts = append(state.Attempts, record)
			state.LastError = ""
			state.Result = result
			return result, state
		}

		var parseErr *ParseError
		record.ParseSucceeded = !errors.As(verr, &parseErr)
		record.ValidationError = verr.Error()
		state.Attempts = append(state.Attempts, record)
		state.LastError = verr.Error()
	}

	state.Exhausted = true
	return task.Fallback(), state
}
