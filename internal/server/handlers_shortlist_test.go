package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohan/ai-counselor/internal/types"
)

const classifyResponse = `{
	"Dream": [{"name": "Massachusetts Institute of Technology", "reason": "Top ranked", "cost": "High", "acceptance_chance": "Low"}],
	"Target": ["University of Toronto"],
	"Safe": []
}`

func TestClassifyPersistsShortlist(t *testing.T) {
	store := newFakeStore()
	s, client := newTestServer(store, classifyResponse)
	userID := uuid.New()

	var buckets map[string]any
	rec := doJSON(t, s, http.MethodPost, "/users/"+userID.String()+"/shortlist/classify", nil, &buckets)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, len(client.requests))

	// Raw buckets pass through to the caller.
	assert.Contains(t, buckets, "Dream")
	assert.Contains(t, buckets, "Target")
	assert.Contains(t, buckets, "Safe")

	// Entries are flattened and persisted with category and insight.
	entries, err := store.ListShortlist(context.Background(), userID, false)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := make(map[string]types.ShortlistedUniversity)
	for _, e := range entries {
		byName[e.Name] = e
	}
	mit := byName["Massachusetts Institute of Technology"]
	assert.Equal(t, types.CategoryDream, mit.Category)
	require.NotNil(t, mit.Insight)
	assert.Equal(t, "Low", mit.Insight.AcceptanceChance)

	toronto := byName["University of Toronto"]
	assert.Equal(t, types.CategoryTarget, toronto.Category)
}

func TestClassifyUsesSuppliedCandidates(t *testing.T) {
	s, client := newTestServer(newFakeStore(), classifyResponse)
	userID := uuid.New()

	rec := doJSON(t, s, http.MethodPost, "/users/"+userID.String()+"/shortlist/classify", types.ClassifyRequest{
		Candidates: []types.UniversityCandidate{{Name: "Aalto University", Rank: 109}},
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].UserPrompt, "Aalto University")
}

func TestClassifyDebounced(t *testing.T) {
	s, _ := newTestServer(newFakeStore(), classifyResponse, classifyResponse)
	userID := uuid.New()
	path := "/users/" + userID.String() + "/shortlist/classify"

	rec := doJSON(t, s, http.MethodPost, path, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, path, nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestClassifyFallbackClearsNothingLocked(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()

	// Seed a locked entry and an unlocked leftover from a previous run.
	require.NoError(t, store.ReplaceShortlist(context.Background(), userID, []types.ShortlistedUniversity{
		{Name: "ETH Zurich", Category: types.CategoryDream},
		{Name: "Old Unlocked", Category: types.CategorySafe},
	}))
	entries, err := store.ListShortlist(context.Background(), userID, false)
	require.NoError(t, err)
	for _, e := range entries {
		if e.Name == "ETH Zurich" {
			_, err := store.LockUniversity(context.Background(), userID, uuid.MustParse(e.ID))
			require.NoError(t, err)
		}
	}

	// Provider fails on all attempts: empty buckets replace the unlocked rows.
	s, _ := newTestServer(store)
	rec := doJSON(t, s, http.MethodPost, "/users/"+userID.String()+"/shortlist/classify", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries, err = store.ListShortlist(context.Background(), userID, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ETH Zurich", entries[0].Name)
	assert.True(t, entries[0].IsLocked)
}

func TestListShortlistLockedFilter(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	require.NoError(t, store.ReplaceShortlist(context.Background(), userID, []types.ShortlistedUniversity{
		{Name: "A", Category: types.CategoryDream},
		{Name: "B", Category: types.CategoryTarget},
	}))

	s, _ := newTestServer(store)

	var all []types.ShortlistedUniversity
	rec := doJSON(t, s, http.MethodGet, "/users/"+userID.String()+"/shortlist", nil, &all)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, all, 2)

	rec = doJSON(t, s, http.MethodPost, "/users/"+userID.String()+"/shortlist/"+all[0].ID+"/lock", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var locked []types.ShortlistedUniversity
	rec = doJSON(t, s, http.MethodGet, "/users/"+userID.String()+"/shortlist?locked=true", nil, &locked)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, locked, 1)
	assert.Equal(t, all[0].Name, locked[0].Name)
}

func TestLockUnknownEntry(t *testing.T) {
	s, _ := newTestServer(newFakeStore())
	userID := uuid.New()

	rec := doJSON(t, s, http.MethodPost, "/users/"+userID.String()+"/shortlist/"+uuid.NewString()+"/lock", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShortlistFromBucketsResolvesCountry(t *testing.T) {
	entries := shortlistFromBuckets(map[string]any{
		"Dream":  []any{"Massachusetts Institute of Technology"},
		"Target": []any{"Not In The Catalog"},
		"Safe":   []any{},
	})

	require.Len(t, entries, 2)
	assert.Equal(t, "USA", entries[0].Country)
	assert.Empty(t, entries[1].Country)
}
