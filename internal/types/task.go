package types

// Task types mirror the dashboard's to-do categories.
const (
	TaskTypeProfile     = "PROFILE"
	TaskTypeUniversity  = "UNIVERSITY"
	TaskTypeApplication = "APPLICATION"
	TaskTypePersonal    = "PERSONAL"
)

// TaskItem is one entry in the user's to-do list.
type TaskItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"is_completed"`
	Type      string `json:"task_type"`
}
