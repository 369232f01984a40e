// Package server provides the HTTP REST API for the AI counselor backend.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rohan/ai-counselor/internal/db"
	"github.com/rohan/ai-counselor/internal/llm"
	"github.com/rohan/ai-counselor/internal/types"
)

// Store is the persistence surface the handlers depend on. *db.DB satisfies
// it; tests substitute a fake.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (types.Profile, string, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest, step string) error

	ListTasks(ctx context.Context, userID uuid.UUID) ([]types.TaskItem, error)
	CreateTask(ctx context.Context, userID uuid.UUID, title, taskType string) (types.TaskItem, error)
	ToggleTask(ctx context.Context, userID, taskID uuid.UUID) (bool, error)
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (bool, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) (bool, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*types.TaskItem, error)

	ReplaceShortlist(ctx context.Context, userID uuid.UUID, entries []types.ShortlistedUniversity) error
	ListShortlist(ctx context.Context, userID uuid.UUID, lockedOnly bool) ([]types.ShortlistedUniversity, error)
	LockUniversity(ctx context.Context, userID, entryID uuid.UUID) (bool, error)

	CreateChatSession(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	SessionBelongsTo(ctx context.Context, sessionID, userID uuid.UUID) (bool, error)
	AppendChatMessage(ctx context.Context, sessionID uuid.UUID, role, content string) error
	ChatHistory(ctx context.Context, sessionID uuid.UUID) ([]types.ChatTurn, error)
}

var _ Store = (*db.DB)(nil)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      Store
	llm        llm.Client
	validate   *validator.Validate
	debounce   *debouncer
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	s := NewWith(database, client)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.withLogging(s.withCORS(s.routes())),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// NewWith wires a server around explicit collaborators. Used by New and by tests.
func NewWith(store Store, client llm.Client) *Server {
	return &Server{
		store:    store,
		llm:      client,
		validate: validator.New(),
		debounce: newDebouncer(),
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /universities", s.handleListUniversities)

	// Profile and dashboard
	mux.HandleFunc("GET /users/{user_id}/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /users/{user_id}/profile", s.handleUpdateProfile)
	mux.HandleFunc("GET /users/{user_id}/strength", s.handleProfileStrength)
	mux.HandleFunc("POST /users/{user_id}/dashboard/refresh", s.handleDashboardRefresh)

	// Tasks
	mux.HandleFunc("GET /users/{user_id}/tasks", s.handleListTasks)
	mux.HandleFunc("POST /users/{user_id}/tasks", s.handleCreateTask)
	mux.HandleFunc("POST /users/{user_id}/tasks/{task_id}/toggle", s.handleToggleTask)
	mux.HandleFunc("DELETE /users/{user_id}/tasks/{task_id}", s.handleDeleteTask)

	// Shortlist
	mux.HandleFunc("POST /users/{user_id}/shortlist/classify", s.handleClassify)
	mux.HandleFunc("GET /users/{user_id}/shortlist", s.handleListShortlist)
	mux.HandleFunc("POST /users/{user_id}/shortlist/{entry_id}/lock", s.handleLockUniversity)

	// Chat
	mux.HandleFunc("POST /users/{user_id}/chat/sessions", s.handleCreateChatSession)
	mux.HandleFunc("POST /users/{user_id}/chat", s.handleChat)
	mux.HandleFunc("GET /users/{user_id}/chat/history", s.handleChatHistory)

	return mux
}

// Handler returns the routed handler without middleware. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Start runs the server until interrupted, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if database, ok := s.store.(*db.DB); ok {
		database.Close()
	}
	if s.llm != nil {
		_ = s.llm.Close()
	}
	log.Println("Server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userID parses the {user_id} path segment, writing a 400 on failure.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}
