package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rohan/ai-counselor/internal/catalog"
	"github.com/rohan/ai-counselor/internal/counseling"
	"github.com/rohan/ai-counselor/internal/types"
)

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	if !s.debounce.tryAcquire("classify", userID) {
		s.errorResponse(w, http.StatusTooManyRequests, "Classification already in progress, try again shortly")
		return
	}

	var req types.ClassifyRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
			return
		}
	}

	// Default to the full catalog when the caller supplies no candidates.
	candidates := req.Candidates
	if len(candidates) == 0 {
		universities, err := catalog.All()
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Catalog error: "+err.Error())
			return
		}
		candidates = catalog.Candidates(universities)
	}

	profile, _, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	buckets, _ := counseling.ClassifyUniversities(r.Context(), s.llm, profile, candidates)

	if err := s.store.ReplaceShortlist(r.Context(), userID, shortlistFromBuckets(buckets)); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, buckets)
}

// shortlistFromBuckets flattens the classification buckets into persistable
// shortlist entries, coercing loose bucket contents defensively.
func shortlistFromBuckets(buckets map[string]any) []types.ShortlistedUniversity {
	countries := countryIndex()

	entries := make([]types.ShortlistedUniversity, 0)
	for _, category := range types.Categories() {
		for _, insight := range types.InsightsFromBucket(buckets[category]) {
			insight := insight
			entries = append(entries, types.ShortlistedUniversity{
				Name:     insight.Name,
				Country:  countries[insight.Name],
				Category: category,
				Insight:  &insight,
			})
		}
	}
	return entries
}

func countryIndex() map[string]string {
	index := make(map[string]string)
	universities, err := catalog.All()
	if err != nil {
		return index
	}
	for _, u := range universities {
		index[u.Name] = u.Country
	}
	return index
}

func (s *Server) handleListShortlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	lockedOnly := r.URL.Query().Get("locked") == "true"
	entries, err := s.store.ListShortlist(r.Context(), userID, lockedOnly)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, entries)
}

func (s *Server) handleLockUniversity(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	entryID, err := uuid.Parse(r.PathValue("entry_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid shortlist entry ID")
		return
	}

	found, err := s.store.LockUniversity(r.Context(), userID, entryID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !found {
		s.errorResponse(w, http.StatusNotFound, "Shortlist entry not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "locked"})
}
