package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rohan/ai-counselor/internal/llm"
	"github.com/rohan/ai-counselor/internal/types"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu        sync.Mutex
	profiles  map[uuid.UUID]types.Profile
	steps     map[uuid.UUID]string
	tasks     map[uuid.UUID][]types.TaskItem
	shortlist map[uuid.UUID][]types.ShortlistedUniversity
	sessions  map[uuid.UUID]uuid.UUID // session -> owner
	messages  map[uuid.UUID][]types.ChatTurn
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:  make(map[uuid.UUID]types.Profile),
		steps:     make(map[uuid.UUID]string),
		tasks:     make(map[uuid.UUID][]types.TaskItem),
		shortlist: make(map[uuid.UUID][]types.ShortlistedUniversity),
		sessions:  make(map[uuid.UUID]uuid.UUID),
		messages:  make(map[uuid.UUID][]types.ChatTurn),
	}
}

func (f *fakeStore) GetProfile(_ context.Context, userID uuid.UUID) (types.Profile, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	step, ok := f.steps[userID]
	if !ok {
		step = types.StepAcademicBackground
	}
	return f.profiles[userID], step, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, userID uuid.UUID, req types.UpdateProfileRequest, step string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile := f.profiles[userID]
	if req.AcademicBackground != nil {
		profile.AcademicBackground = req.AcademicBackground
	}
	if req.StudyGoal != nil {
		profile.StudyGoal = req.StudyGoal
	}
	if req.Budget != nil {
		profile.Budget = req.Budget
	}
	if req.ExamsReadiness != nil {
		profile.ExamsReadiness = req.ExamsReadiness
	}
	f.profiles[userID] = profile
	f.steps[userID] = step
	return nil
}

func (f *fakeStore) ListTasks(_ context.Context, userID uuid.UUID) ([]types.TaskItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.TaskItem(nil), f.tasks[userID]...), nil
}

func (f *fakeStore) CreateTask(_ context.Context, userID uuid.UUID, title, taskType string) (types.TaskItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if taskType == "" {
		taskType = types.TaskTypePersonal
	}
	task := types.TaskItem{ID: uuid.NewString(), Title: title, Type: taskType}
	f.tasks[userID] = append(f.tasks[userID], task)
	return task, nil
}

func (f *fakeStore) ToggleTask(_ context.Context, userID, taskID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, task := range f.tasks[userID] {
		if task.ID == taskID.String() {
			f.tasks[userID][i].Completed = !task.Completed
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CompleteTask(_ context.Context, userID, taskID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, task := range f.tasks[userID] {
		if task.ID == taskID.String() {
			f.tasks[userID][i].Completed = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) DeleteTask(_ context.Context, userID, taskID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, task := range f.tasks[userID] {
		if task.ID == taskID.String() {
			f.tasks[userID] = append(f.tasks[userID][:i], f.tasks[userID][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetTask(_ context.Context, userID, taskID uuid.UUID) (*types.TaskItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, task := range f.tasks[userID] {
		if task.ID == taskID.String() {
			found := task
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ReplaceShortlist(_ context.Context, userID uuid.UUID, entries []types.ShortlistedUniversity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := make([]types.ShortlistedUniversity, 0)
	for _, e := range f.shortlist[userID] {
		if e.IsLocked {
			kept = append(kept, e)
		}
	}
	for _, e := range entries {
		e.ID = uuid.NewString()
		kept = append(kept, e)
	}
	f.shortlist[userID] = kept
	return nil
}

func (f *fakeStore) ListShortlist(_ context.Context, userID uuid.UUID, lockedOnly bool) ([]types.ShortlistedUniversity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]types.ShortlistedUniversity, 0)
	for _, e := range f.shortlist[userID] {
		if lockedOnly && !e.IsLocked {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (f *fakeStore) LockUniversity(_ context.Context, userID, entryID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.shortlist[userID] {
		if e.ID == entryID.String() {
			f.shortlist[userID][i].IsLocked = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateChatSession(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sessionID := uuid.New()
	f.sessions[sessionID] = userID
	return sessionID, nil
}

func (f *fakeStore) SessionBelongsTo(_ context.Context, sessionID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.sessions[sessionID]
	return ok && owner == userID, nil
}

func (f *fakeStore) AppendChatMessage(_ context.Context, sessionID uuid.UUID, role, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[sessionID] = append(f.messages[sessionID], types.ChatTurn{Role: role, Content: content})
	return nil
}

func (f *fakeStore) ChatHistory(_ context.Context, sessionID uuid.UUID) ([]types.ChatTurn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.ChatTurn(nil), f.messages[sessionID]...), nil
}

// fakeLLM returns canned responses in order, or routes each request through
// respond when set. When the script runs out every call fails like an
// unreachable provider.
type fakeLLM struct {
	mu        sync.Mutex
	respond   func(req llm.CompletionRequest) (string, error)
	responses []string
	requests  []llm.CompletionRequest
}

func (c *fakeLLM) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if c.respond != nil {
		return c.respond(req)
	}
	if len(c.responses) == 0 {
		return "", &llm.ProviderError{Message: "script exhausted"}
	}
	next := c.responses[0]
	c.responses = c.responses[1:]
	return next, nil
}

func (c *fakeLLM) GetModel(tier llm.ModelTier) string { return string(tier) }

func (c *fakeLLM) Close() error { return nil }

func newTestServer(store Store, responses ...string) (*Server, *fakeLLM) {
	client := &fakeLLM{responses: responses}
	return NewWith(store, client), client
}

// newRoutedServer builds a server whose LLM answers are computed per request.
// Needed where workflows run concurrently and reply order is not fixed.
func newRoutedServer(store Store, respond func(req llm.CompletionRequest) (string, error)) (*Server, *fakeLLM) {
	client := &fakeLLM{respond: respond}
	return NewWith(store, client), client
}

// doJSON performs one request against the routed handler and decodes the
// JSON response body into out (when out is non-nil).
func doJSON(t *testing.T, s *Server, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}
