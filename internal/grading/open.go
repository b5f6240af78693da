package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/codefix-arena/backend/internal/activity"
)

// ErrEvaluationUnavailable is returned when the external evaluation
// capability is unreachable or its output cannot be parsed. The orchestrator
// must not record a submission in that case, so the student keeps the attempt.
var ErrEvaluationUnavailable = errors.New("evaluation service unavailable")

const defaultFeedback = "Sin retroalimentación."

type RubricItem struct {
	Criterion string  `json:"criterion"`
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"maxPoints"`
	Notes     string  `json:"notes,omitempty"`
}

type OpenResult struct {
	Score        float64      `json:"score"`
	Feedback     string       `json:"feedback"`
	Rubric       []RubricItem `json:"rubric"`
	Strengths    []string     `json:"strengths"`
	Improvements []string     `json:"improvements"`
}

// EvalRequest carries the activity context the evaluator grades against.
type EvalRequest struct {
	ActivityType  string
	Title         string
	StudyText     string
	Instructions  string
	GeneratedText string
	StudentAnswer string
}

// Evaluator is the external content-evaluation capability. Implementations
// may be slow and may fail; both are handled here.
type Evaluator interface {
	EvaluateOpenAnswer(ctx context.Context, req EvalRequest) (OpenResult, error)
}

// OpenGrader grades open-ended and code submissions by delegating judgment
// to an Evaluator and normalizing whatever comes back.
type OpenGrader struct {
	evaluator Evaluator
	timeout   time.Duration
}

func NewOpenGrader(e Evaluator, timeout time.Duration) *OpenGrader {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &OpenGrader{evaluator: e, timeout: timeout}
}

func (g *OpenGrader) Grade(ctx context.Context, act activity.Activity, rawAnswer json.RawMessage) (OpenResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.evaluator.EvaluateOpenAnswer(ctx, EvalRequest{
		ActivityType:  string(act.Type),
		Title:         act.Title,
		StudyText:     act.Content.StudyText,
		Instructions:  act.Content.Instructions,
		GeneratedText: act.Content.GeneratedText,
		StudentAnswer: CoerceAnswer(rawAnswer),
	})
	if err != nil {
		return OpenResult{}, fmt.Errorf("%w: %v", ErrEvaluationUnavailable, err)
	}
	return normalizeOpenResult(res), nil
}

// normalizeOpenResult enforces the grader's own contract regardless of what
// the evaluator returned: score clamped to [0,100] (0 when not a number),
// non-empty feedback, non-nil lists.
func normalizeOpenResult(r OpenResult) OpenResult {
	if math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
		r.Score = 0
	}
	r.Score = math.Max(0, math.Min(100, r.Score))
	if strings.TrimSpace(r.Feedback) == "" {
		r.Feedback = defaultFeedback
	}
	if r.Rubric == nil {
		r.Rubric = []RubricItem{}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Improvements == nil {
		r.Improvements = []string{}
	}
	return r
}

// CoerceAnswer flattens the submitted answers payload to a single string:
// the string itself, the first element of a sequence, or the raw JSON as a
// fallback.
func CoerceAnswer(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var seq []json.RawMessage
	if err := json.Unmarshal(raw, &seq); err == nil {
		if len(seq) == 0 {
			return ""
		}
		var first string
		if err := json.Unmarshal(seq[0], &first); err == nil {
			return first
		}
		return string(seq[0])
	}
	return string(raw)
}
