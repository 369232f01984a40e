package counseling

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/rohan/ai-counselor/internal/types"
)

// recommendationSchema requires the three bucket keys. Bucket contents are
// deliberately unconstrained: the per-university analysis shape is advisory
// and the caller coerces it defensively.
const recommendationSchema = `{
	"type": "object",
	"required": ["Dream", "Target", "Safe"]
}`

var recommendationSchemaLoader = gojsonschema.NewStringLoader(recommendationSchema)

// ValidateRecommendation parses raw text and checks the three-bucket shape.
// It is total: any malformed input yields an error, never a panic.
func ValidateRecommendation(raw string) (map[string]any, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &ParseError{Message: "response is not a JSON object", Cause: err}
	}

	result, err := gojsonschema.Validate(recommendationSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, &ParseError{Message: "failed to validate response", Cause: err}
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, &SchemaError{
			Message: fmt.Sprintf("missing required keys Dream, Target, Safe: %s", strings.Join(details, "; ")),
		}
	}

	return parsed, nil
}

// ValidRecommendation reports whether raw text is a well-formed
// three-bucket classification.
func ValidRecommendation(raw string) bool {
	_, err := ValidateRecommendation(raw)
	return err == nil
}

// ValidateChatReply parses raw text into a chat reply envelope. The
// `response` field is required and must be coercible to a string; suggested
// actions and the action directive are lenient and default to empty/absent.
func ValidateChatReply(raw string) (*types.ChatReply, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &ParseError{Message: "response is not a JSON object", Cause: err}
	}

	respVal, ok := parsed["response"]
	if !ok || respVal == nil {
		return nil, &SchemaError{Message: "missing required field: response"}
	}

	reply := &types.ChatReply{SuggestedActions: []string{}}
	switch v := respVal.(type) {
	case string:
		reply.Response = v
	case float64, bool:
		reply.Response = fmt.Sprint(v)
	default:
		return nil, &SchemaError{Message: "field 'response' is not coercible to a string"}
	}

	if actions, ok := parsed["suggested_actions"].([]any); ok {
		for _, a := range actions {
			if s, ok := a.(string); ok {
				reply.SuggestedActions = append(reply.SuggestedActions, s)
			}
		}
	}

	if rawAction, ok := parsed["action"].(map[string]any); ok {
		action := &types.ChatAction{}
		if t, ok := rawAction["type"].(string); ok {
			action.Type = t
		}
		if title, ok := rawAction["title"].(string); ok {
			action.Title = title
		}
		if taskID, ok := rawAction["task_id"].(string); ok {
			action.TaskID = taskID
		}
		// Unknown directive types are dropped, not rejected.
		if action.Type == types.ActionCreateTask || action.Type == types.ActionCompleteTask {
			reply.Action = action
		}
	}

	return reply, nil
}

// ValidChatReply reports whether raw text is a well-formed chat envelope.
func ValidChatReply(raw string) bool {
	_, err := ValidateChatReply(raw)
	return err == nil
}
