// Package types defines the shared data structures for the AI counselor backend.
package types

// AcademicBackground captures the student's education history.
type AcademicBackground struct {
	EducationLevel string `json:"education_level" validate:"required"`
	DegreeMajor    string `json:"degree_major" validate:"required"`
	GraduationYear int    `json:"graduation_year" validate:"required,gte=1950,lte=2100"`
	GPA            string `json:"gpa,omitempty"`
}

// StudyGoal captures what and where the student wants to study.
type StudyGoal struct {
	IntendedDegree     string `json:"intended_degree" validate:"required"`
	FieldOfStudy       string `json:"field_of_study" validate:"required"`
	TargetIntake       string `json:"target_intake" validate:"required"`
	PreferredCountries string `json:"preferred_countries" validate:"required"`
}

// Budget captures the student's financial plan.
type Budget struct {
	BudgetRange string `json:"budget_range" validate:"required"`
	FundingPlan string `json:"funding_plan" validate:"required,oneof=Self-funded Scholarship-dependent Loan-dependent"`
}

// ExamsReadiness captures standardized test and SOP status.
type ExamsReadiness struct {
	IELTSTOEFLStatus string `json:"ielts_toefl_status,omitempty"`
	IELTSTOEFLScore  string `json:"ielts_toefl_score,omitempty"`
	GREGMATStatus    string `json:"gre_gmat_status,omitempty"`
	GREGMATScore     string `json:"gre_gmat_score,omitempty"`
	SOPStatus        string `json:"sop_status,omitempty" validate:"omitempty,oneof='Not started' Draft Ready"`
}

// Profile is a read-only snapshot of the student's onboarding data.
// Sections are nil until the corresponding onboarding step is completed.
type Profile struct {
	AcademicBackground *AcademicBackground `json:"academic_background,omitempty"`
	StudyGoal          *StudyGoal          `json:"study_goal,omitempty"`
	Budget             *Budget             `json:"budget,omitempty"`
	ExamsReadiness     *ExamsReadiness     `json:"exams_readiness,omitempty"`
}

// OnboardingStep values mirror the onboarding wizard pages.
const (
	StepAcademicBackground = "AcademicBackground"
	StepStudyGoal          = "StudyGoal"
	StepBudget             = "Budget"
	StepExamsAndReadiness  = "ExamsAndReadiness"
	StepCompleted          = "Completed"
)

// ProfileStrength is the LLM's assessment of the profile.
type ProfileStrength struct {
	Academics string `json:"academics"`
	Exams     string `json:"exams"`
	SOP       string `json:"sop"`
}
