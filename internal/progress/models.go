package progress

import "errors"

var ErrNotFound = errors.New("progress not found")

// Entry is one (user, subtopic) completion record. Saving again overwrites
// the score, there is one row per pair.
type Entry struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	SubtopicID  string  `json:"subtopic_id"`
	Score       float64 `json:"score"`
	Completed   bool    `json:"completed"`
	CompletedAt int64   `json:"completed_at"`
}

// UserStats summarizes one student across the whole catalog.
type UserStats struct {
	CompletedSubtopics int            `json:"completed_subtopics"`
	TotalSubtopics     int            `json:"total_subtopics"`
	AverageScore       float64        `json:"average_score"`
	XP                 int64          `json:"xp"`
	Subjects           []SubjectStats `json:"subjects"`
}

// SubjectStats is a student's completion within one subject.
type SubjectStats struct {
	SubjectID      string  `json:"subject_id"`
	SubjectName    string  `json:"subject_name"`
	Completed      int     `json:"completed"`
	TotalSubtopics int     `json:"total_subtopics"`
	AverageScore   float64 `json:"average_score"`
}

// SubtopicProgress is one subtopic's state inside a subject detail view.
type SubtopicProgress struct {
	SubtopicID   string   `json:"subtopic_id"`
	SubtopicName string   `json:"subtopic_name"`
	UnitID       string   `json:"unit_id"`
	UnitName     string   `json:"unit_name"`
	Completed    bool     `json:"completed"`
	Score        *float64 `json:"score"`
	CompletedAt  *int64   `json:"completed_at"`
}

// AdminStats is the platform-wide dashboard aggregate.
type AdminStats struct {
	TotalUsers         int               `json:"total_users"`
	UsersByRole        map[string]int    `json:"users_by_role"`
	TotalSubjects      int               `json:"total_subjects"`
	TotalSubtopics     int               `json:"total_subtopics"`
	TotalActivities    int               `json:"total_activities"`
	TotalSubmissions   int               `json:"total_submissions"`
	AverageScore       float64           `json:"average_score"`
	CompletionRate     float64           `json:"completion_rate"`
	RecentSubmissions  int               `json:"recent_submissions"`
	SubjectCompletions []SubjectActivity `json:"subject_completions"`
}

// SubjectActivity counts completions recorded against one subject.
type SubjectActivity struct {
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Completions int    `json:"completions"`
}
