package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/codefix-arena/backend/internal/activity"
	"github.com/codefix-arena/backend/internal/grading"
)

// ActivityGetter loads the activity being answered.
type ActivityGetter interface {
	GetByID(ctx context.Context, id string) (activity.Activity, error)
}

// Ledger records graded submissions and answers the one-attempt question.
type Ledger interface {
	Create(ctx context.Context, sub Submission) (Submission, error)
	FindByUserActivity(ctx context.Context, userID, activityID string) (Submission, error)
}

// OpenGrading evaluates non-quiz answers. Implemented by grading.OpenGrader.
type OpenGrading interface {
	Grade(ctx context.Context, act activity.Activity, rawAnswer json.RawMessage) (grading.OpenResult, error)
}

// Service runs the submit workflow: reject repeat attempts, grade, persist,
// return the result. A grading failure leaves no submission behind, so the
// attempt is not consumed.
type Service struct {
	activities ActivityGetter
	ledger     Ledger
	open       OpenGrading
	log        *zap.Logger
}

func NewService(activities ActivityGetter, ledger Ledger, open OpenGrading, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{activities: activities, ledger: ledger, open: open, log: log}
}

func (s *Service) Submit(ctx context.Context, userID, activityID string, answers json.RawMessage) (Result, error) {
	if activityID == "" {
		return Result{}, ErrMissingActivityID
	}

	if existing, err := s.ledger.FindByUserActivity(ctx, userID, activityID); err == nil {
		return Result{}, &AlreadySubmittedError{Existing: existing}
	} else if !errors.Is(err, ErrNotFound) {
		return Result{}, err
	}

	act, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return Result{}, err
	}

	if act.Type.IsQuiz() {
		return s.submitQuiz(ctx, userID, act, answers)
	}
	return s.submitOpen(ctx, userID, act, answers)
}

func (s *Service) submitQuiz(ctx context.Context, userID string, act activity.Activity, answers json.RawMessage) (Result, error) {
	var given []any
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &given); err != nil {
			// A non-array payload grades as all unanswered rather than
			// consuming the attempt with a hard error.
			given = nil
		}
	}

	res, err := grading.GradeQuiz(act.Content.Questions, given)
	if err != nil {
		return Result{}, fmt.Errorf("grade quiz %s: %w", act.ID, err)
	}

	sub, err := s.persist(ctx, userID, act.ID, answers, res.Score, res.Feedback)
	if err != nil {
		return Result{}, err
	}
	s.log.Info("quiz submitted",
		zap.String("activity_id", act.ID),
		zap.String("user_id", userID),
		zap.Float64("score", res.Score))
	return Result{
		Submission:      sub,
		Score:           res.Score,
		Feedback:        res.Feedback,
		DetailedResults: res.Details,
	}, nil
}

func (s *Service) submitOpen(ctx context.Context, userID string, act activity.Activity, answers json.RawMessage) (Result, error) {
	res, err := s.open.Grade(ctx, act, answers)
	if err != nil {
		s.log.Warn("open evaluation failed, attempt not consumed",
			zap.String("activity_id", act.ID),
			zap.String("user_id", userID),
			zap.Error(err))
		return Result{}, err
	}

	sub, err := s.persist(ctx, userID, act.ID, answers, res.Score, res.Feedback)
	if err != nil {
		return Result{}, err
	}
	s.log.Info("open answer submitted",
		zap.String("activity_id", act.ID),
		zap.String("user_id", userID),
		zap.Float64("score", res.Score))
	return Result{
		Submission: sub,
		Score:      res.Score,
		Feedback:   res.Feedback,
		AIReview: &AIReview{
			Rubric:       res.Rubric,
			Strengths:    res.Strengths,
			Improvements: res.Improvements,
		},
	}, nil
}

// persist writes the graded submission. When a concurrent submit already
// took the slot, the winner's submission is returned inside
// AlreadySubmittedError.
func (s *Service) persist(ctx context.Context, userID, activityID string, answers json.RawMessage, score float64, feedback string) (Submission, error) {
	if len(answers) == 0 {
		answers = json.RawMessage("null")
	}
	sub := Submission{
		UserID:     userID,
		ActivityID: activityID,
		Answers:    answers,
		Score:      &score,
		Feedback:   feedback,
	}
	created, err := s.ledger.Create(ctx, sub)
	if errors.Is(err, ErrDuplicate) {
		winner, ferr := s.ledger.FindByUserActivity(ctx, userID, activityID)
		if ferr != nil {
			return Submission{}, fmt.Errorf("lost submit race but winner not found: %w", ferr)
		}
		return Submission{}, &AlreadySubmittedError{Existing: winner}
	}
	if err != nil {
		return Submission{}, err
	}
	return created, nil
}
