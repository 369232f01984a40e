// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/rohan/ai-counselor/internal/counseling"
	"github.com/rohan/ai-counselor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// rawPreviewLen caps how much raw model output is echoed per attempt
	rawPreviewLen = 120
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintWorkflow outputs the attempt-by-attempt trace of one workflow run.
func (p *Printer) PrintWorkflow(state *counseling.WorkflowState) {
	if state == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Attempts: %d/%d\n", state.Calls(), state.MaxAttempts))
	for _, attempt := range state.Attempts {
		raw := attempt.RawResponse
		if len(raw) > rawPreviewLen {
			raw = raw[:rawPreviewLen] + "..."
		}
		sb.WriteString(fmt.Sprintf("\n#%d raw: %s\n", attempt.Attempt, raw))
		if attempt.ValidationError != "" {
			sb.WriteString(fmt.Sprintf("#%d error: %s\n", attempt.Attempt, attempt.ValidationError))
		}
	}
	if state.Exhausted {
		sb.WriteString("\nResult: fallback (all attempts exhausted)\n")
	} else {
		sb.WriteString("\nResult: accepted\n")
	}

	p.printBox(fmt.Sprintf("Workflow: %s", state.Task), sb.String())
}

// PrintRecommendation outputs a human-readable summary of the classification.
func (p *Printer) PrintRecommendation(buckets map[string]any) {
	var sb strings.Builder
	for _, category := range types.Categories() {
		insights := types.InsightsFromBucket(buckets[category])
		sb.WriteString(fmt.Sprintf("%s (%d):\n", category, len(insights)))
		for _, insight := range insights {
			sb.WriteString(fmt.Sprintf("  - %s", insight.Name))
			if insight.AcceptanceChance != "" {
				sb.WriteString(fmt.Sprintf(" [chance: %s]", insight.AcceptanceChance))
			}
			sb.WriteString("\n")
		}
	}
	p.printBox("University Classification", sb.String())
}

// PrintChatReply outputs the counselor's reply and suggested follow-ups.
func (p *Printer) PrintChatReply(reply *types.ChatReply) {
	if reply == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(reply.Response)
	sb.WriteString("\n")
	if len(reply.SuggestedActions) > 0 {
		sb.WriteString("\nSuggested next steps:\n")
		for _, action := range reply.SuggestedActions {
			sb.WriteString(fmt.Sprintf("  - %s\n", action))
		}
	}
	if reply.Action != nil {
		sb.WriteString(fmt.Sprintf("\nAction: %s %s%s\n", reply.Action.Type, reply.Action.Title, reply.Action.TaskID))
	}
	p.printBox("Counselor", sb.String())
}
