package counseling

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohan/ai-counselor/internal/types"
)

func TestValidateRecommendation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		isParse bool
	}{
		{
			name: "valid three buckets",
			raw:  `{"Dream": [], "Target": [], "Safe": []}`,
		},
		{
			name: "buckets with rich insight objects",
			raw:  `{"Dream": [{"name": "MIT", "reason": "strong research fit"}], "Target": [], "Safe": []}`,
		},
		{
			name: "extra keys tolerated",
			raw:  `{"Dream": [], "Target": [], "Safe": [], "notes": "ignore me"}`,
		},
		{
			name:    "empty object",
			raw:     `{}`,
			wantErr: true,
		},
		{
			name:    "missing one bucket",
			raw:     `{"Dream": [], "Target": []}`,
			wantErr: true,
		},
		{
			name:    "lowercase keys rejected",
			raw:     `{"dream": [], "target": [], "safe": []}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "Sure! Here are your universities:",
			wantErr: true,
			isParse: true,
		},
		{
			name:    "json array not object",
			raw:     `["Dream", "Target", "Safe"]`,
			wantErr: true,
			isParse: true,
		},
		{
			name:    "bare string",
			raw:     `"Dream"`,
			wantErr: true,
			isParse: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
			isParse: true,
		},
		{
			name:    "truncated json",
			raw:     `{"Dream": ["A"], "Target":`,
			wantErr: true,
			isParse: true,
		},
		{
			// encoding/json coerces invalid UTF-8 to replacement runes, so
			// this parses and then fails the schema check.
			name:    "invalid utf8 bytes",
			raw:     "{\"Dream\": \"\xff\xfe\"}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ValidateRecommendation(tt.raw)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Contains(t, parsed, "Dream")
				assert.True(t, ValidRecommendation(tt.raw))
				return
			}

			require.Error(t, err)
			assert.Nil(t, parsed)
			assert.False(t, ValidRecommendation(tt.raw))

			var parseErr *ParseError
			assert.Equal(t, tt.isParse, errors.As(err, &parseErr))
		})
	}
}

func TestValidateRecommendationPreservesBucketContents(t *testing.T) {
	parsed, err := ValidateRecommendation(`{"Dream": ["A"], "Target": ["B"], "Safe": ["C"]}`)
	require.NoError(t, err)

	// The parsed value passes through untouched; bucket coercion happens at
	// the persistence boundary, not here.
	assert.Equal(t, []any{"A"}, parsed["Dream"])
	assert.Equal(t, []any{"B"}, parsed["Target"])
	assert.Equal(t, []any{"C"}, parsed["Safe"])
}

func TestValidateChatReply(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *types.ChatReply
		wantErr bool
		isParse bool
	}{
		{
			name: "response only gets empty defaults",
			raw:  `{"response": "Hello! How can I help?"}`,
			want: &types.ChatReply{
				Response:         "Hello! How can I help?",
				SuggestedActions: []string{},
			},
		},
		{
			name: "full envelope",
			raw:  `{"response": "Done.", "suggested_actions": ["Check deadlines"], "action": {"type": "create_task", "title": "Draft SOP"}}`,
			want: &types.ChatReply{
				Response:         "Done.",
				SuggestedActions: []string{"Check deadlines"},
				Action:           &types.ChatAction{Type: "create_task", Title: "Draft SOP"},
			},
		},
		{
			name: "complete_task directive",
			raw:  `{"response": "Marked done.", "action": {"type": "complete_task", "task_id": "abc-123"}}`,
			want: &types.ChatReply{
				Response:         "Marked done.",
				SuggestedActions: []string{},
				Action:           &types.ChatAction{Type: "complete_task", TaskID: "abc-123"},
			},
		},
		{
			name: "unknown action type dropped",
			raw:  `{"response": "Okay", "action": {"type": "delete_everything"}}`,
			want: &types.ChatReply{
				Response:         "Okay",
				SuggestedActions: []string{},
			},
		},
		{
			name: "malformed action dropped",
			raw:  `{"response": "Okay", "action": "create_task"}`,
			want: &types.ChatReply{
				Response:         "Okay",
				SuggestedActions: []string{},
			},
		},
		{
			name: "non-string suggested actions skipped",
			raw:  `{"response": "Okay", "suggested_actions": ["keep", 42, null, {"x": 1}]}`,
			want: &types.ChatReply{
				Response:         "Okay",
				SuggestedActions: []string{"keep"},
			},
		},
		{
			name: "numeric response coerced",
			raw:  `{"response": 42}`,
			want: &types.ChatReply{
				Response:         "42",
				SuggestedActions: []string{},
			},
		},
		{
			name:    "missing response",
			raw:     `{"suggested_actions": ["a"]}`,
			wantErr: true,
		},
		{
			name:    "null response",
			raw:     `{"response": null}`,
			wantErr: true,
		},
		{
			name:    "object response rejected",
			raw:     `{"response": {"text": "hi"}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "I'd be happy to help!",
			wantErr: true,
			isParse: true,
		},
		{
			name:    "array body",
			raw:     `[1, 2, 3]`,
			wantErr: true,
			isParse: true,
		},
		{
			name:    "empty sentinel",
			raw:     `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := ValidateChatReply(tt.raw)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, reply)
				assert.False(t, ValidChatReply(tt.raw))

				var parseErr *ParseError
				assert.Equal(t, tt.isParse, errors.As(err, &parseErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, reply)
			assert.True(t, ValidChatReply(tt.raw))
		})
	}
}

func TestChatWorkflowDefaultsOptionalFields(t *testing.T) {
	client := script(text(`{"response": "Focus on your SOP next."}`))

	reply, state := RespondToChat(context.Background(), client, ChatContext{Message: "What now?"})

	assert.Equal(t, 1, state.Calls())
	require.NotNil(t, reply)
	assert.Equal(t, "Focus on your SOP next.", reply.Response)
	assert.NotNil(t, reply.SuggestedActions)
	assert.Empty(t, reply.SuggestedActions)
	assert.Nil(t, reply.Action)
}

func TestChatWorkflowFallsBackToApology(t *testing.T) {
	client := script(failure(), failure(), failure())

	reply, state := RespondToChat(context.Background(), client, ChatContext{Message: "hi"})

	assert.Equal(t, 3, state.Calls())
	assert.True(t, state.Exhausted)
	require.NotNil(t, reply)
	assert.Equal(t, "I encountered an error. Please try again.", reply.Response)
	assert.Empty(t, reply.SuggestedActions)
	assert.Nil(t, reply.Action)
}
