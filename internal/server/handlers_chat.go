package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rohan/ai-counselor/internal/counseling"
	"github.com/rohan/ai-counselor/internal/types"
)

func (s *Server) handleCreateChatSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	sessionID, err := s.store.CreateChatSession(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": sessionID.String()})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	sessionID, ok := s.resolveSession(r.Context(), w, userID, req.SessionID)
	if !ok {
		return
	}

	history, err := s.store.ChatHistory(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	locked, err := s.store.ListShortlist(r.Context(), userID, true)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	shortlisted, err := s.store.ListShortlist(r.Context(), userID, false)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	tasks, err := s.store.ListTasks(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	active := make([]types.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		if !task.Completed {
			active = append(active, task)
		}
	}

	reply, _ := counseling.RespondToChat(r.Context(), s.llm, counseling.ChatContext{
		Message:     req.Message,
		History:     history,
		Locked:      locked,
		Shortlisted: shortlisted,
		ActiveTasks: active,
	})

	s.applyChatAction(r.Context(), userID, reply)

	if err := s.store.AppendChatMessage(r.Context(), sessionID, types.RoleUser, req.Message); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if err := s.store.AppendChatMessage(r.Context(), sessionID, types.RoleAssistant, reply.Response); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"session_id":        sessionID.String(),
		"response":          reply.Response,
		"suggested_actions": reply.SuggestedActions,
		"action":            reply.Action,
	})
}

// resolveSession verifies the supplied session belongs to the user, or
// creates a fresh one when none is given.
func (s *Server) resolveSession(ctx context.Context, w http.ResponseWriter, userID uuid.UUID, raw string) (uuid.UUID, bool) {
	if raw == "" {
		sessionID, err := s.store.CreateChatSession(ctx, userID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return uuid.Nil, false
		}
		return sessionID, true
	}

	sessionID, err := uuid.Parse(raw)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	owned, err := s.store.SessionBelongsTo(ctx, sessionID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return uuid.Nil, false
	}
	if !owned {
		s.errorResponse(w, http.StatusNotFound, "Chat session not found")
		return uuid.Nil, false
	}
	return sessionID, true
}

// applyChatAction enforces the model's optional action directive against the
// user's real task list. Directives that reference unknown tasks or carry no
// usable payload are dropped rather than acted on.
func (s *Server) applyChatAction(ctx context.Context, userID uuid.UUID, reply *types.ChatReply) {
	if reply == nil || reply.Action == nil {
		return
	}

	switch reply.Action.Type {
	case types.ActionCreateTask:
		if reply.Action.Title == "" {
			reply.Action = nil
			return
		}
		task, err := s.store.CreateTask(ctx, userID, reply.Action.Title, types.TaskTypePersonal)
		if err != nil {
			reply.Action = nil
			return
		}
		reply.Action.TaskID = task.ID
	case types.ActionCompleteTask:
		taskID, err := uuid.Parse(reply.Action.TaskID)
		if err != nil {
			reply.Action = nil
			return
		}
		existing, err := s.store.GetTask(ctx, userID, taskID)
		if err != nil || existing == nil {
			reply.Action = nil
			return
		}
		if _, err := s.store.CompleteTask(ctx, userID, taskID); err != nil {
			reply.Action = nil
		}
	default:
		reply.Action = nil
	}
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(r.URL.Query().Get("session_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return
	}
	owned, err := s.store.SessionBelongsTo(r.Context(), sessionID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !owned {
		s.errorResponse(w, http.StatusNotFound, "Chat session not found")
		return
	}

	history, err := s.store.ChatHistory(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, history)
}
