package types

import "encoding/json"

// UniversityCandidate is the minimal view of a university sent to the model.
type UniversityCandidate struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// UniversityInsight is the model's analysis of one university.
type UniversityInsight struct {
	Name             string `json:"name"`
	Reason           string `json:"reason"`
	Risks            string `json:"risks"`
	Cost             string `json:"cost"`
	AcceptanceChance string `json:"acceptance_chance"`
}

// Shortlist categories.
const (
	CategoryDream  = "Dream"
	CategoryTarget = "Target"
	CategorySafe   = "Safe"
)

// Categories lists the bucket names in display order.
func Categories() []string {
	return []string{CategoryDream, CategoryTarget, CategorySafe}
}

// InsightsFromBucket coerces one classification bucket into typed insights.
// The model's bucket contents are only advisory: objects are decoded
// field-by-field, bare strings become name-only insights, anything else is
// dropped.
func InsightsFromBucket(bucket any) []UniversityInsight {
	items, ok := bucket.([]any)
	if !ok {
		return []UniversityInsight{}
	}

	insights := make([]UniversityInsight, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			insights = append(insights, UniversityInsight{Name: v})
		case map[string]any:
			raw, err := json.Marshal(v)
			if err != nil {
				continue
			}
			var insight UniversityInsight
			if err := json.Unmarshal(raw, &insight); err != nil {
				continue
			}
			if insight.Name != "" {
				insights = append(insights, insight)
			}
		}
	}
	return insights
}

// ShortlistedUniversity is a persisted shortlist entry for one user.
type ShortlistedUniversity struct {
	ID       string             `json:"id"`
	Name     string             `json:"university_name"`
	Country  string             `json:"country"`
	Category string             `json:"category"`
	IsLocked bool               `json:"is_locked"`
	Insight  *UniversityInsight `json:"data,omitempty"`
}
