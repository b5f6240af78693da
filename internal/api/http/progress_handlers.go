package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codefix-arena/backend/internal/auth"
	"github.com/codefix-arena/backend/internal/catalog"
	"github.com/codefix-arena/backend/internal/progress"
	"github.com/codefix-arena/backend/internal/rbac"
)

type saveProgressRequest struct {
	SubtopicID string  `json:"subtopic_id" validate:"required"`
	Score      float64 `json:"score" validate:"gte=0,lte=100"`
}

// UserStatsHandler returns a student's aggregate progress. Students may only
// read their own; admins may read anyone's.
func UserStatsHandler(prog *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := requireSelfOrAdmin(w, r)
		if !ok {
			return
		}
		stats, err := prog.UserStats(r.Context(), target)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// SubjectProgressHandler returns a student's per-subtopic state for one
// subject.
func SubjectProgressHandler(prog *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := requireSelfOrAdmin(w, r)
		if !ok {
			return
		}
		out, err := prog.SubjectProgress(r.Context(), target, chi.URLParam(r, "subjectID"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load progress")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// SaveProgressHandler upserts the caller's completion for a subtopic.
func SaveProgressHandler(prog *progress.Store, cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveProgressRequest
		if !decodeValid(w, r, &req) {
			return
		}
		uid := auth.SubjectFromContext(r.Context())
		if uid == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if _, err := cat.GetSubtopic(r.Context(), req.SubtopicID); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				writeError(w, http.StatusNotFound, "subtopic not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "could not resolve subtopic")
			return
		}
		entry, err := prog.Save(r.Context(), uid, req.SubtopicID, req.Score)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not save progress")
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

// AdminStatsHandler returns the platform dashboard aggregate.
func AdminStatsHandler(prog *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := prog.AdminStats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// requireSelfOrAdmin resolves the {userID} path param and enforces that
// non-admins can only read their own data.
func requireSelfOrAdmin(w http.ResponseWriter, r *http.Request) (target string, ok bool) {
	uid := auth.SubjectFromContext(r.Context())
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	target = chi.URLParam(r, "userID")
	if target == "" || target == "me" {
		target = uid
	}
	if target != uid {
		if rbac.RoleFromContext(r.Context()) != rbac.RoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden")
			return "", false
		}
	}
	return target, true
}
