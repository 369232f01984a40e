package types

// ChatRequest is the body for POST /chat.
type ChatRequest struct {
	Message   string `json:"message" validate:"required,min=1,max=4000"`
	SessionID string `json:"session_id" validate:"omitempty,uuid4"`
}

// CreateTaskRequest is the body for POST /tasks.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
	Type  string `json:"task_type" validate:"omitempty,oneof=PROFILE UNIVERSITY APPLICATION PERSONAL"`
}

// ClassifyRequest is the body for POST /shortlist/classify.
type ClassifyRequest struct {
	Candidates []UniversityCandidate `json:"candidates" validate:"omitempty,dive"`
}

// UpdateProfileRequest is the body for PUT /profile/{user_id}.
// Sections are optional so each onboarding step can be saved independently.
type UpdateProfileRequest struct {
	AcademicBackground *AcademicBackground `json:"academic_background,omitempty"`
	StudyGoal          *StudyGoal          `json:"study_goal,omitempty"`
	Budget             *Budget             `json:"budget,omitempty"`
	ExamsReadiness     *ExamsReadiness     `json:"exams_readiness,omitempty"`
}
