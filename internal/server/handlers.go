package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/rohan/ai-counselor/internal/catalog"
	"github.com/rohan/ai-counselor/internal/counseling"
	"github.com/rohan/ai-counselor/internal/types"
)

// ---------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------

func (s *Server) handleListUniversities(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	universities, total, err := catalog.Page(page, pageSize)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Catalog error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"universities": universities,
		"total":        total,
	})
}

// ---------------------------------------------------------------------
// Profile & dashboard
// ---------------------------------------------------------------------

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	profile, step, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profile":         profile,
		"onboarding_step": step,
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	_, step, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	step = advanceOnboarding(step, req)
	if err := s.store.UpdateProfile(r.Context(), userID, req, step); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":          "updated",
		"onboarding_step": step,
	})
}

// advanceOnboarding moves the wizard forward based on which sections the
// user has now saved. Steps never move backwards.
func advanceOnboarding(current string, req types.UpdateProfileRequest) string {
	order := []string{
		types.StepAcademicBackground,
		types.StepStudyGoal,
		types.StepBudget,
		types.StepExamsAndReadiness,
		types.StepCompleted,
	}

	position := 0
	for i, step := range order {
		if step == current {
			position = i
			break
		}
	}

	next := position
	switch {
	case req.ExamsReadiness != nil:
		next = 4
	case req.Budget != nil:
		next = 3
	case req.StudyGoal != nil:
		next = 2
	case req.AcademicBackground != nil:
		next = 1
	}
	if next < position {
		next = position
	}
	return order[next]
}

func (s *Server) handleProfileStrength(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	profile, _, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	strength, _ := counseling.EvaluateProfileStrength(r.Context(), s.llm, profile)
	s.jsonResponse(w, http.StatusOK, strength)
}

func (s *Server) handleDashboardRefresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	if !s.debounce.tryAcquire("refresh", userID) {
		s.errorResponse(w, http.StatusTooManyRequests, "Refresh already in progress, try again shortly")
		return
	}

	profile, step, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	tasks, err := s.store.ListTasks(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	existing := make([]string, 0, len(tasks))
	for _, task := range tasks {
		existing = append(existing, task.Title)
	}

	refresh := counseling.RefreshDashboard(r.Context(), s.llm, profile, step, existing)

	created := make([]types.TaskItem, 0, len(refresh.SuggestedTasks))
	for _, title := range refresh.SuggestedTasks {
		task, err := s.store.CreateTask(r.Context(), userID, title, types.TaskTypeProfile)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		created = append(created, task)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"strength":  refresh.Strength,
		"new_tasks": created,
	})
}

// ---------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	tasks, err := s.store.ListTasks(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	task, err := s.store.CreateTask(r.Context(), userID, req.Title, req.Type)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, task)
}

func (s *Server) taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("task_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	taskID, ok := s.taskID(w, r)
	if !ok {
		return
	}

	found, err := s.store.ToggleTask(r.Context(), userID, taskID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !found {
		s.errorResponse(w, http.StatusNotFound, "Task not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "toggled"})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	taskID, ok := s.taskID(w, r)
	if !ok {
		return
	}

	found, err := s.store.DeleteTask(r.Context(), userID, taskID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !found {
		s.errorResponse(w, http.StatusNotFound, "Task not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
