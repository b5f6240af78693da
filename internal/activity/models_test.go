package activity

import (
	"errors"
	"testing"
)

func TestParseType(t *testing.T) {
	got, err := ParseType("  quiz ")
	if err != nil || got != TypeQuiz {
		t.Fatalf("ParseType(quiz) = %v, %v", got, err)
	}
	if _, err := ParseType("ESSAY"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("err = %v, want ErrInvalidType", err)
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	cases := []struct {
		in   string
		want Difficulty
	}{
		{"", DifficultyEasy},
		{"easy", DifficultyEasy},
		{"FACIL", DifficultyEasy},
		{"fácil", DifficultyEasy},
		{"medio", DifficultyMedium},
		{"DIFÍCIL", DifficultyHard},
		{"intermediate", DifficultyIntermediate},
	}
	for _, tc := range cases {
		got, err := NormalizeDifficulty(tc.in)
		if err != nil {
			t.Fatalf("NormalizeDifficulty(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeDifficulty(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := NormalizeDifficulty("impossible"); err == nil {
		t.Fatal("unknown difficulty should error")
	}
}

func TestValidateQuizContent(t *testing.T) {
	act := Activity{
		Type: TypeQuiz,
		Content: Content{Questions: []Question{
			{Question: "q", Options: []string{"a", "b"}, CorrectAnswer: 1},
		}},
	}
	if err := act.Validate(); err != nil {
		t.Fatalf("valid quiz rejected: %v", err)
	}

	act.Content.Questions[0].CorrectAnswer = 2
	if err := act.Validate(); !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("out-of-range correctAnswer: err = %v", err)
	}

	act.Content.Questions = nil
	if err := act.Validate(); !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("empty quiz: err = %v", err)
	}
}

func TestValidateOpenContent(t *testing.T) {
	act := Activity{Type: TypeCodeChallenge, Content: Content{Instructions: "fix the bug"}}
	if err := act.Validate(); err != nil {
		t.Fatalf("valid open activity rejected: %v", err)
	}

	act.Content = Content{GeneratedText: "enunciado"}
	if err := act.Validate(); err != nil {
		t.Fatalf("generated text should satisfy the prompt requirement: %v", err)
	}

	act.Content = Content{}
	if err := act.Validate(); !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("promptless open activity: err = %v", err)
	}
}
