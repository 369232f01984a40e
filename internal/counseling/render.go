package counseling

import (
	"fmt"
	"strings"

	"github.com/rohan/ai-counselor/internal/prompts"
	"github.com/rohan/ai-counselor/internal/types"
)

const promptFile = "counseling.json"

// missingField is rendered wherever an optional profile section or field is
// absent; prompt builders never fail on incomplete profiles.
const missingField = "N/A"

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return missingField
	}
	return s
}

func orNAInt(n int) string {
	if n == 0 {
		return missingField
	}
	return fmt.Sprintf("%d", n)
}

// academicOf and friends flatten nil profile sections into zero values so
// template data can be built unconditionally.
func academicOf(p types.Profile) types.AcademicBackground {
	if p.AcademicBackground == nil {
		return types.AcademicBackground{}
	}
	return *p.AcademicBackground
}

func studyGoalOf(p types.Profile) types.StudyGoal {
	if p.StudyGoal == nil {
		return types.StudyGoal{}
	}
	return *p.StudyGoal
}

func budgetOf(p types.Profile) types.Budget {
	if p.Budget == nil {
		return types.Budget{}
	}
	return *p.Budget
}

func examsOf(p types.Profile) types.ExamsReadiness {
	if p.ExamsReadiness == nil {
		return types.ExamsReadiness{}
	}
	return *p.ExamsReadiness
}

// profileData renders the shared profile placeholders used by most templates.
func profileData(p types.Profile) map[string]string {
	academic := academicOf(p)
	goal := studyGoalOf(p)
	budget := budgetOf(p)
	exams := examsOf(p)

	sop := exams.SOPStatus
	if strings.TrimSpace(sop) == "" {
		sop = "Not started"
	}

	return map[string]string{
		"EducationLevel":     orNA(academic.EducationLevel),
		"DegreeMajor":        orNA(academic.DegreeMajor),
		"GraduationYear":     orNAInt(academic.GraduationYear),
		"GPA":                orNA(academic.GPA),
		"IntendedDegree":     orNA(goal.IntendedDegree),
		"FieldOfStudy":       orNA(goal.FieldOfStudy),
		"TargetIntake":       orNA(goal.TargetIntake),
		"PreferredCountries": orNA(goal.PreferredCountries),
		"BudgetRange":        orNA(budget.BudgetRange),
		"FundingPlan":        orNA(budget.FundingPlan),
		"IELTSStatus":        orNA(exams.IELTSTOEFLStatus),
		"IELTSScore":         orNA(exams.IELTSTOEFLScore),
		"GREGMATStatus":      orNA(exams.GREGMATStatus),
		"GREGMATScore":       orNA(exams.GREGMATScore),
		"SOPStatus":          sop,
	}
}

// withRetrySuffix appends the previous attempt's validation diagnostic so the
// model can self-correct. prevErr is empty on the first attempt.
func withRetrySuffix(prompt, prevErr string) string {
	if prevErr == "" {
		return prompt
	}
	suffix := prompts.Format(prompts.MustGet(promptFile, "retry-suffix"), map[string]string{
		"Error": prevErr,
	})
	return prompt + suffix
}
