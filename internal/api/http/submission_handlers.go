package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codefix-arena/backend/internal/activity"
	"github.com/codefix-arena/backend/internal/auth"
	"github.com/codefix-arena/backend/internal/grading"
	"github.com/codefix-arena/backend/internal/submission"
)

type submitRequest struct {
	ActivityID string          `json:"activity_id" validate:"required"`
	Answers    json.RawMessage `json:"answers"`
}

// SubmitHandler grades and records one attempt. A repeat attempt gets 409
// with the existing submission; an unavailable evaluator gets 503 and the
// attempt stays open.
func SubmitHandler(svc *submission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if !decodeValid(w, r, &req) {
			return
		}
		uid := auth.SubjectFromContext(r.Context())
		if uid == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		res, err := svc.Submit(r.Context(), uid, req.ActivityID, req.Answers)
		var already *submission.AlreadySubmittedError
		switch {
		case errors.As(err, &already):
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":      "activity already submitted",
				"submission": already.Existing,
			})
		case errors.Is(err, activity.ErrNotFound):
			writeError(w, http.StatusNotFound, "activity not found")
		case errors.Is(err, grading.ErrEvaluationUnavailable):
			writeError(w, http.StatusServiceUnavailable, "evaluation unavailable, try again later")
		case errors.Is(err, grading.ErrNoQuestions), errors.Is(err, activity.ErrInvalidContent):
			writeError(w, http.StatusUnprocessableEntity, "activity content is not gradable")
		case err != nil:
			writeError(w, http.StatusInternalServerError, "could not record submission")
		default:
			writeJSON(w, http.StatusCreated, res)
		}
	}
}

// MySubmissionHandler returns the caller's submission for an activity, if
// any.
func MySubmissionHandler(subs *submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.SubjectFromContext(r.Context())
		if uid == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		sub, err := subs.FindByUserActivity(r.Context(), uid, chi.URLParam(r, "id"))
		if errors.Is(err, submission.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no submission yet")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load submission")
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

// MyHistoryHandler lists the caller's submissions with activity context.
func MyHistoryHandler(subs *submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.SubjectFromContext(r.Context())
		if uid == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		out, err := subs.ListByUser(r.Context(), uid)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load history")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ListSubmissionsHandler lists every submission for an activity (admin).
func ListSubmissionsHandler(subs *submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := subs.ListByActivity(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not list submissions")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
