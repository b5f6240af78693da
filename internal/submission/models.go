package submission

import (
	"encoding/json"
	"errors"

	"github.com/codefix-arena/backend/internal/grading"
)

var (
	ErrNotFound = errors.New("submission not found")

	// ErrDuplicate is the storage-level signal that a concurrent submit won
	// the race for the (user, activity) slot.
	ErrDuplicate = errors.New("submission already exists")

	ErrMissingActivityID = errors.New("activity id is required")
)

// Status is always COMPLETED on creation; grading is synchronous, there is
// no in-progress state.
const StatusCompleted = "COMPLETED"

type Submission struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	ActivityID  string          `json:"activity_id"`
	Answers     json.RawMessage `json:"answers"`
	Score       *float64        `json:"score"`
	Feedback    string          `json:"feedback"`
	Status      string          `json:"status"`
	CompletedAt int64           `json:"completed_at"`
}

// AlreadySubmittedError rejects a second attempt and carries the existing
// submission so callers can show prior results instead of a bare error.
type AlreadySubmittedError struct {
	Existing Submission
}

func (e *AlreadySubmittedError) Error() string {
	return "activity already submitted"
}

// AIReview is the open-answer grader's breakdown attached to the submit
// response.
type AIReview struct {
	Rubric       []grading.RubricItem `json:"rubric"`
	Strengths    []string             `json:"strengths"`
	Improvements []string             `json:"improvements"`
}

// Result is what a successful submit returns to the caller.
type Result struct {
	Submission      Submission               `json:"submission"`
	Score           float64                  `json:"score"`
	Feedback        string                   `json:"feedback"`
	DetailedResults []grading.QuestionResult `json:"detailedResults,omitempty"`
	AIReview        *AIReview                `json:"aiReview,omitempty"`
}

// ActivityEntry is a submission joined with its author, for the admin
// listing of an activity's submissions.
type ActivityEntry struct {
	Submission
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

// HistoryEntry is a submission joined with its activity and catalog path,
// for the student history view.
type HistoryEntry struct {
	Submission
	Activity struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Type        string `json:"type"`
		Difficulty  string `json:"difficulty"`
		SubtopicID  string `json:"subtopic_id"`
		Subtopic    string `json:"subtopic"`
		Unit        string `json:"unit"`
		Subject     string `json:"subject"`
		AIGenerated bool   `json:"ai_generated"`
	} `json:"activity"`
}
