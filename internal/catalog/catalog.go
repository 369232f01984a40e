// Package catalog serves the static university catalog embedded in the binary.
package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rohan/ai-counselor/internal/types"
)

// University is one catalog entry.
type University struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Rank    int    `json:"rank"`
}

var (
	loadOnce sync.Once
	loaded   []University
	loadErr  error
)

// All returns every catalog entry in rank order.
func All() ([]University, error) {
	loadOnce.Do(func() {
		var universities []University
		if err := json.Unmarshal(catalogData, &universities); err != nil {
			loadErr = fmt.Errorf("failed to parse university catalog: %w", err)
			return
		}
		loaded = universities
	})
	return loaded, loadErr
}

// Page slices the catalog. page is 1-based; pageSize caps at 50.
func Page(page, pageSize int) ([]University, int, error) {
	universities, err := All()
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 50 {
		pageSize = 50
	}

	total := len(universities)
	start := (page - 1) * pageSize
	if start >= total {
		return []University{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return universities[start:end], total, nil
}

// Candidates converts catalog entries to the minimal view sent to the model.
func Candidates(universities []University) []types.UniversityCandidate {
	candidates := make([]types.UniversityCandidate, 0, len(universities))
	for _, u := range universities {
		candidates = append(candidates, types.UniversityCandidate{Name: u.Name, Rank: u.Rank})
	}
	return candidates
}
