package grading

import (
	"errors"
	"fmt"
	"math"

	"github.com/codefix-arena/backend/internal/activity"
)

// ErrNoQuestions is returned for a quiz with an empty question list. Creation
// validates this already; the grader still refuses to divide by zero.
var ErrNoQuestions = errors.New("quiz has no questions")

const notAnswered = "No respondida"

// QuestionResult is the per-question breakdown returned to the student.
type QuestionResult struct {
	QuestionNumber int    `json:"questionNumber"`
	Question       string `json:"question"`
	YourAnswer     string `json:"yourAnswer"`
	CorrectAnswer  string `json:"correctAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	Explanation    string `json:"explanation,omitempty"`
}

type QuizResult struct {
	Score    float64          `json:"score"`
	Correct  int              `json:"correct"`
	Total    int              `json:"total"`
	Feedback string           `json:"feedback"`
	Details  []QuestionResult `json:"detailedResults"`
}

// GradeQuiz scores submitted answer indices against the question list.
// Pure function: each question is graded independently and weighted equally;
// a missing, non-numeric or out-of-range answer counts as incorrect.
func GradeQuiz(questions []activity.Question, answers []any) (QuizResult, error) {
	if len(questions) == 0 {
		return QuizResult{}, ErrNoQuestions
	}

	res := QuizResult{Total: len(questions), Details: make([]QuestionResult, 0, len(questions))}
	for i, q := range questions {
		picked, ok := -1, false
		if i < len(answers) {
			picked, ok = answerIndex(answers[i])
		}
		valid := ok && picked >= 0 && picked < len(q.Options)

		correct := valid && picked == q.CorrectAnswer
		if correct {
			res.Correct++
		}

		yourAnswer := notAnswered
		if valid {
			yourAnswer = q.Options[picked]
		}
		correctText := ""
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			correctText = q.Options[q.CorrectAnswer]
		}

		res.Details = append(res.Details, QuestionResult{
			QuestionNumber: i + 1,
			Question:       q.Question,
			YourAnswer:     yourAnswer,
			CorrectAnswer:  correctText,
			IsCorrect:      correct,
			Explanation:    q.Explanation,
		})
	}

	res.Score = float64(res.Correct) / float64(res.Total) * 100
	res.Feedback = fmt.Sprintf("Respondiste correctamente %d de %d preguntas (%.1f%%)",
		res.Correct, res.Total, res.Score)
	return res, nil
}

// answerIndex extracts an option index from a decoded JSON value. JSON
// numbers arrive as float64; anything non-integral or non-numeric is
// treated as unanswered.
func answerIndex(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
