package activity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("activity not found")
	ErrInvalidType    = errors.New("invalid activity type")
	ErrInvalidContent = errors.New("invalid activity content")
)

type Type string

const (
	TypeQuiz           Type = "QUIZ"
	TypeMultipleChoice Type = "MULTIPLE_CHOICE"
	TypeTrueFalse      Type = "TRUE_FALSE"
	TypeCodeChallenge  Type = "CODE_CHALLENGE"
	TypeOpenQuestion   Type = "OPEN_QUESTION"
	TypeQuestion       Type = "QUESTION"
	TypeExercise       Type = "EXERCISE"
)

var allTypes = map[Type]bool{
	TypeQuiz:           true,
	TypeMultipleChoice: true,
	TypeTrueFalse:      true,
	TypeCodeChallenge:  true,
	TypeOpenQuestion:   true,
	TypeQuestion:       true,
	TypeExercise:       true,
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !allTypes[t] {
		return "", fmt.Errorf("%w: %s", ErrInvalidType, s)
	}
	return t, nil
}

// IsQuiz reports whether submissions for this type are graded
// deterministically against an answer key. Everything else goes through the
// open-answer evaluator.
func (t Type) IsQuiz() bool { return t == TypeQuiz }

type Difficulty string

const (
	DifficultyEasy         Difficulty = "EASY"
	DifficultyMedium       Difficulty = "MEDIUM"
	DifficultyHard         Difficulty = "HARD"
	DifficultyBasic        Difficulty = "BASIC"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

var allDifficulties = map[Difficulty]bool{
	DifficultyEasy:         true,
	DifficultyMedium:       true,
	DifficultyHard:         true,
	DifficultyBasic:        true,
	DifficultyIntermediate: true,
	DifficultyAdvanced:     true,
}

// difficultyAliases maps common UI spellings (including Spanish) onto the
// canonical values.
var difficultyAliases = map[string]Difficulty{
	"FACIL":   DifficultyEasy,
	"FÁCIL":   DifficultyEasy,
	"MEDIO":   DifficultyMedium,
	"DIFICIL": DifficultyHard,
	"DIFÍCIL": DifficultyHard,
}

// NormalizeDifficulty maps free-form input to a canonical difficulty.
// Empty input defaults to EASY.
func NormalizeDifficulty(s string) (Difficulty, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	if raw == "" {
		return DifficultyEasy, nil
	}
	if d, ok := difficultyAliases[raw]; ok {
		return d, nil
	}
	d := Difficulty(raw)
	if !allDifficulties[d] {
		return "", fmt.Errorf("invalid difficulty: %s", s)
	}
	return d, nil
}

// Question is one multiple-choice item inside a quiz activity's content.
// Points is advisory metadata; scoring weights every question equally.
type Question struct {
	ID            int      `json:"id,omitempty"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Points        int      `json:"points,omitempty"`
}

// Content is the variant payload keyed by the activity type: quiz activities
// carry Questions, everything else carries an open-ended prompt.
type Content struct {
	Questions     []Question `json:"questions,omitempty"`
	Instructions  string     `json:"instructions,omitempty"`
	StudyText     string     `json:"studyText,omitempty"`
	GeneratedText string     `json:"generatedText,omitempty"`
	EstimatedTime int        `json:"estimatedTime,omitempty"`
}

type Activity struct {
	ID          string     `json:"id"`
	SubtopicID  string     `json:"subtopic_id"`
	CreatedBy   string     `json:"created_by"`
	Type        Type       `json:"type"`
	Difficulty  Difficulty `json:"difficulty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Content     Content    `json:"content"`
	AIGenerated bool       `json:"ai_generated"`
	CreatedAt   int64      `json:"created_at"`
}

// Validate checks the content-shape invariant: quiz activities need at least
// one question with a correct-answer index that references a real option;
// open activities need a non-empty prompt.
func (a *Activity) Validate() error {
	if !allTypes[a.Type] {
		return fmt.Errorf("%w: %s", ErrInvalidType, a.Type)
	}
	if a.Type.IsQuiz() {
		if len(a.Content.Questions) == 0 {
			return fmt.Errorf("%w: quiz has no questions", ErrInvalidContent)
		}
		for i, q := range a.Content.Questions {
			if strings.TrimSpace(q.Question) == "" {
				return fmt.Errorf("%w: question %d has no text", ErrInvalidContent, i+1)
			}
			if len(q.Options) == 0 {
				return fmt.Errorf("%w: question %d has no options", ErrInvalidContent, i+1)
			}
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return fmt.Errorf("%w: question %d correctAnswer out of range", ErrInvalidContent, i+1)
			}
		}
		return nil
	}
	if strings.TrimSpace(a.Content.Instructions) == "" && strings.TrimSpace(a.Content.GeneratedText) == "" {
		return fmt.Errorf("%w: instructions required", ErrInvalidContent)
	}
	return nil
}
