package ai

import (
	"encoding/json"
	"testing"

	"github.com/codefix-arena/backend/internal/activity"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", `Here you go: {"a":1}. Enjoy!`, `{"a":1}`},
		{"nested braces", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`},
		{"no object passes through", `nothing here`, `nothing here`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.in); got != tc.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCoerceScore(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{`85`, 85},
		{`85.5`, 85.5},
		{`"90"`, 90},
		{`" 72.5 "`, 72.5},
		{`null`, 0},
		{`"not a score"`, 0},
	}
	for _, tc := range cases {
		if got := coerceScore(json.RawMessage(tc.in)); got != tc.want {
			t.Fatalf("coerceScore(%s) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFinishGeneratedDefaults(t *testing.T) {
	gen := GeneratedActivity{}
	req := GenerateRequest{Type: activity.TypeExercise, Subtopic: "Bucles"}
	if err := finishGenerated(&gen, req); err != nil {
		t.Fatalf("finishGenerated: %v", err)
	}
	if gen.Title == "" {
		t.Fatal("title default not applied")
	}
	if gen.EstimatedTime == 0 {
		t.Fatal("estimated time default not applied")
	}
	if gen.Instructions == "" && gen.GeneratedText == "" {
		t.Fatal("open activity needs a prompt fallback")
	}
}

func TestFinishGeneratedQuizNeedsQuestions(t *testing.T) {
	gen := GeneratedActivity{Title: "Quiz"}
	if err := finishGenerated(&gen, GenerateRequest{Type: activity.TypeQuiz}); err == nil {
		t.Fatal("quiz without questions should error")
	}

	gen.Questions = []activity.Question{
		{Question: "q", Options: []string{"a", "b"}, CorrectAnswer: 1},
	}
	if err := finishGenerated(&gen, GenerateRequest{Type: activity.TypeQuiz}); err != nil {
		t.Fatalf("valid quiz rejected: %v", err)
	}
}
