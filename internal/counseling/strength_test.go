package counseling

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohan/ai-counselor/internal/types"
)

func TestStrengthValidate(t *testing.T) {
	task := &strengthTask{}

	result, err := task.Validate(`{"academics": "Strong", "exams": "Completed", "sop": "Draft"}`)
	require.NoError(t, err)
	strength := result.(*types.ProfileStrength)
	assert.Equal(t, "Strong", strength.Academics)
	assert.Equal(t, "Completed", strength.Exams)
	assert.Equal(t, "Draft", strength.SOP)

	var schemaErr *SchemaError
	_, err = task.Validate(`{}`)
	require.Error(t, err)
	assert.True(t, errors.As(err, &schemaErr))

	_, err = task.Validate(`{"academics": "Strong"}`)
	assert.Error(t, err)

	var parseErr *ParseError
	_, err = task.Validate("not json")
	require.Error(t, err)
	assert.True(t, errors.As(err, &parseErr))
}

func TestEvaluateProfileStrengthIsSingleShot(t *testing.T) {
	client := script() // provider always fails

	strength, state := EvaluateProfileStrength(context.Background(), client, types.Profile{})

	assert.Equal(t, 1, state.Calls())
	assert.True(t, state.Exhausted)
	require.NotNil(t, strength)
	assert.Equal(t, "Average", strength.Academics)
	assert.Equal(t, "Not Started", strength.Exams)
	assert.Equal(t, "Not started", strength.SOP)
}

func TestSuggestTasksIsSingleShot(t *testing.T) {
	client := script()

	titles, state := SuggestTasks(context.Background(), client, types.Profile{}, "onboarding", nil)

	assert.Equal(t, 1, state.Calls())
	assert.Equal(t, []string{"Complete your profile information"}, titles)
}

func TestSuggestTasksGuardsEmptyResult(t *testing.T) {
	client := script(text(`[]`))

	titles, state := SuggestTasks(context.Background(), client, types.Profile{}, "onboarding", nil)

	assert.Equal(t, 1, state.Calls())
	assert.False(t, state.Exhausted)
	assert.Equal(t, []string{"Complete your profile information"}, titles)
}
