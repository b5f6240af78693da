package grading

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/codefix-arena/backend/internal/activity"
)

type stubEvaluator struct {
	res  OpenResult
	err  error
	last EvalRequest
}

func (s *stubEvaluator) EvaluateOpenAnswer(_ context.Context, req EvalRequest) (OpenResult, error) {
	s.last = req
	return s.res, s.err
}

func openActivity() activity.Activity {
	return activity.Activity{
		ID:    "act-1",
		Type:  activity.TypeCodeChallenge,
		Title: "Fix the bug",
		Content: activity.Content{
			Instructions:  "Find and fix the off-by-one error.",
			GeneratedText: "func sum(xs []int) int { ... }",
			StudyText:     "Slices in Go",
		},
	}
}

func TestOpenGraderNormalizesResult(t *testing.T) {
	eval := &stubEvaluator{res: OpenResult{Score: 150, Feedback: "  "}}
	g := NewOpenGrader(eval, time.Second)

	res, err := g.Grade(context.Background(), openActivity(), json.RawMessage(`"my answer"`))
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Score != 100 {
		t.Fatalf("score = %v, want clamped to 100", res.Score)
	}
	if res.Feedback != "Sin retroalimentación." {
		t.Fatalf("feedback = %q, want default", res.Feedback)
	}
	if res.Rubric == nil || res.Strengths == nil || res.Improvements == nil {
		t.Fatal("nil slices should be normalized to empty")
	}
	if eval.last.StudentAnswer != "my answer" {
		t.Fatalf("student answer = %q", eval.last.StudentAnswer)
	}
	if eval.last.ActivityType != "CODE_CHALLENGE" || eval.last.Title != "Fix the bug" {
		t.Fatalf("request context = %+v", eval.last)
	}
}

func TestOpenGraderClampsNegativeAndNaN(t *testing.T) {
	g := NewOpenGrader(&stubEvaluator{res: OpenResult{Score: -5, Feedback: "ok"}}, time.Second)
	res, err := g.Grade(context.Background(), openActivity(), json.RawMessage(`"x"`))
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("score = %v, want 0", res.Score)
	}

	g = NewOpenGrader(&stubEvaluator{res: OpenResult{Score: math.NaN(), Feedback: "ok"}}, time.Second)
	res, err = g.Grade(context.Background(), openActivity(), json.RawMessage(`"x"`))
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("NaN score = %v, want 0", res.Score)
	}
}

func TestOpenGraderWrapsEvaluatorFailure(t *testing.T) {
	g := NewOpenGrader(&stubEvaluator{err: errors.New("boom")}, time.Second)
	_, err := g.Grade(context.Background(), openActivity(), json.RawMessage(`"x"`))
	if !errors.Is(err, ErrEvaluationUnavailable) {
		t.Fatalf("err = %v, want ErrEvaluationUnavailable", err)
	}
}

func TestCoerceAnswer(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"hello"`, "hello"},
		{"first of array", `["a","b"]`, "a"},
		{"empty array", `[]`, ""},
		{"array of objects", `[{"k":1}]`, `{"k":1}`},
		{"object fallback", `{"text":"x"}`, `{"text":"x"}`},
		{"empty", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoerceAnswer(json.RawMessage(tc.raw)); got != tc.want {
				t.Fatalf("CoerceAnswer(%s) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
