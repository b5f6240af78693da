package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/codefix-arena/backend/internal/activity"
	"github.com/codefix-arena/backend/internal/ai"
	"github.com/codefix-arena/backend/internal/auth"
	"github.com/codefix-arena/backend/internal/catalog"
)

type createQuizRequest struct {
	SubtopicID  string              `json:"subtopic_id" validate:"required"`
	Title       string              `json:"title" validate:"required,min=1,max=200"`
	Description string              `json:"description"`
	Difficulty  string              `json:"difficulty"`
	Questions   []activity.Question `json:"questions" validate:"required,min=1"`
}

type createActivityRequest struct {
	SubtopicID   string `json:"subtopic_id" validate:"required"`
	Type         string `json:"type" validate:"required"`
	Title        string `json:"title" validate:"required,min=1,max=200"`
	Description  string `json:"description"`
	Difficulty   string `json:"difficulty"`
	Instructions string `json:"instructions" validate:"required"`
}

type generateActivityRequest struct {
	SubtopicID     string `json:"subtopic_id" validate:"required"`
	Type           string `json:"type" validate:"required"`
	Difficulty     string `json:"difficulty"`
	QuestionsCount int    `json:"questions_count" validate:"omitempty,min=1,max=20"`
	TeacherPrompt  string `json:"teacher_prompt"`
}

// CreateQuizHandler stores a hand-authored quiz. Content validation rejects
// questions whose correctAnswer does not reference a real option.
func CreateQuizHandler(acts *activity.Store, cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createQuizRequest
		if !decodeValid(w, r, &req) {
			return
		}
		if !requireSubtopic(w, r, cat, req.SubtopicID) {
			return
		}
		diff, err := activity.NormalizeDifficulty(req.Difficulty)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		uid := auth.SubjectFromContext(r.Context())
		act, err := acts.Create(r.Context(), activity.Activity{
			SubtopicID:  req.SubtopicID,
			CreatedBy:   uid,
			Type:        activity.TypeQuiz,
			Difficulty:  diff,
			Title:       req.Title,
			Description: req.Description,
			Content:     activity.Content{Questions: req.Questions},
		})
		if writeActivityErr(w, err) {
			return
		}
		writeJSON(w, http.StatusCreated, act)
	}
}

// CreateActivityHandler stores a hand-authored open activity (exercise,
// code challenge, open question).
func CreateActivityHandler(acts *activity.Store, cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createActivityRequest
		if !decodeValid(w, r, &req) {
			return
		}
		if !requireSubtopic(w, r, cat, req.SubtopicID) {
			return
		}
		typ, err := activity.ParseType(req.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		diff, err := activity.NormalizeDifficulty(req.Difficulty)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		uid := auth.SubjectFromContext(r.Context())
		act, err := acts.Create(r.Context(), activity.Activity{
			SubtopicID:  req.SubtopicID,
			CreatedBy:   uid,
			Type:        typ,
			Difficulty:  diff,
			Title:       req.Title,
			Description: req.Description,
			Content:     activity.Content{Instructions: req.Instructions},
		})
		if writeActivityErr(w, err) {
			return
		}
		writeJSON(w, http.StatusCreated, act)
	}
}

// GenerateActivityHandler asks the AI capability for a full activity rooted
// in the subtopic's study text, then persists it like any other activity.
func GenerateActivityHandler(acts *activity.Store, cat *catalog.Store, gen *ai.Client, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateActivityRequest
		if !decodeValid(w, r, &req) {
			return
		}
		typ, err := activity.ParseType(req.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		diff, err := activity.NormalizeDifficulty(req.Difficulty)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		path, err := cat.GetPath(r.Context(), req.SubtopicID)
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subtopic not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not resolve subtopic")
			return
		}

		generated, err := gen.GenerateActivity(r.Context(), ai.GenerateRequest{
			Subject:        path.Subject.Name,
			Unit:           path.Unit.Name,
			Subtopic:       path.Subtopic.Name,
			Type:           typ,
			Difficulty:     diff,
			QuestionsCount: req.QuestionsCount,
			StudyText:      path.Subtopic.Content,
			TeacherPrompt:  req.TeacherPrompt,
		})
		if err != nil {
			log.Warn("activity generation failed", zap.String("subtopic_id", req.SubtopicID), zap.Error(err))
			writeError(w, http.StatusBadGateway, "activity generation failed")
			return
		}

		uid := auth.SubjectFromContext(r.Context())
		act, err := acts.Create(r.Context(), activity.Activity{
			SubtopicID:  req.SubtopicID,
			CreatedBy:   uid,
			Type:        typ,
			Difficulty:  diff,
			Title:       generated.Title,
			Description: generated.Description,
			Content: activity.Content{
				Questions:     generated.Questions,
				Instructions:  generated.Instructions,
				StudyText:     generated.StudyText,
				GeneratedText: generated.GeneratedText,
				EstimatedTime: generated.EstimatedTime,
			},
			AIGenerated: true,
		})
		if writeActivityErr(w, err) {
			return
		}
		writeJSON(w, http.StatusCreated, act)
	}
}

func ListActivitiesHandler(acts *activity.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := acts.ListBySubtopic(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not list activities")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetActivityHandler(acts *activity.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := acts.GetByID(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, activity.ErrNotFound) {
			writeError(w, http.StatusNotFound, "activity not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load activity")
			return
		}
		writeJSON(w, http.StatusOK, act)
	}
}

func DeleteActivityHandler(acts *activity.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := acts.Delete(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, activity.ErrNotFound) {
			writeError(w, http.StatusNotFound, "activity not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not delete activity")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// requireSubtopic 404s when the target subtopic does not exist; false means
// the response is written.
func requireSubtopic(w http.ResponseWriter, r *http.Request, cat *catalog.Store, subtopicID string) bool {
	_, err := cat.GetSubtopic(r.Context(), subtopicID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "subtopic not found")
		return false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not resolve subtopic")
		return false
	}
	return true
}

// writeActivityErr maps store/validation errors; true means handled.
func writeActivityErr(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, activity.ErrInvalidContent), errors.Is(err, activity.ErrInvalidType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "subtopic not found")
	default:
		writeError(w, http.StatusInternalServerError, "could not save activity")
	}
	return true
}
