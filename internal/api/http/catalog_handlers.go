package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codefix-arena/backend/internal/catalog"
)

type subjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description"`
}

type unitRequest struct {
	SubjectID   string `json:"subject_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"gte=0"`
}

type subtopicRequest struct {
	UnitID      string `json:"unit_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Order       int    `json:"order" validate:"gte=0"`
}

func ListSubjectsHandler(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjects, err := cat.ListSubjects(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not list subjects")
			return
		}
		writeJSON(w, http.StatusOK, subjects)
	}
}

func GetSubjectHandler(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := cat.GetSubject(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subject not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load subject")
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

func CreateSubjectHandler(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subjectRequest
		if !decodeValid(w, r, &req) {
			return
		}
		sub, err := cat.CreateSubject(r.Context(), catalog.Subject{Name: req.Name, Description: req.Description})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create subject")
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	}
}

func UpdateSubjectHandler(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subjectRequest
		if !decodeValid(w, r, &req) {
			return
		}
		sub, err := cat.UpdateSubject(r.Context(), catalog.Subject{
			ID:          chi.URLParam(r, "id"),
			Name:        req.Name,
			Description: req.Description,
		})
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subject not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not update subject")
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

func DeleteSubjectHandler(cat *catalog.Store) http.HandlerFunc {
	return deleteHandler(func(r *http.Request) error {
		return cat.DeleteSubject(r.Context(), chi.URLParam(r, "id"))
	}, "subject not found")
}

func GetUnitHandler(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := cat.GetUnit(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unit not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load unit")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func CreateUnitHandler(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req unitRequest
		if !decodeValid(w, r, &req) {
			return
		}
		u, err := cat.CreateUnit(r.Context(), catalog.Unit{
			SubjectID:   req.SubjectID,
			Name:        req.Name,
			Description: req.Description,
			Order:       req.Order,
		})
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subject not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create unit")
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

func UpdateUnitHandler(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req unitRequest
		if !decodeValid(w, r, &req) {
			return
		}
		u, err := cat.UpdateUnit(r.Context(), catalog.Unit{
			ID:          chi.URLParam(r, "id"),
			SubjectID:   req.SubjectID,
			Name:        req.Name,
			Description: req.Description,
			Order:       req.Order,
		})
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unit not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not update unit")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func DeleteUnitHandler(cat *catalog.Store) http.HandlerFunc {
	return deleteHandler(func(r *http.Request) error {
		return cat.DeleteUnit(r.Context(), chi.URLParam(r, "id"))
	}, "unit not found")
}

func GetSubtopicHandler(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := cat.GetSubtopic(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subtopic not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load subtopic")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func CreateSubtopicHandler(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subtopicRequest
		if !decodeValid(w, r, &req) {
			return
		}
		st, err := cat.CreateSubtopic(r.Context(), catalog.Subtopic{
			UnitID:      req.UnitID,
			Name:        req.Name,
			Description: req.Description,
			Content:     req.Content,
			Order:       req.Order,
		})
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unit not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create subtopic")
			return
		}
		writeJSON(w, http.StatusCreated, st)
	}
}

func UpdateSubtopicHandler(cat *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subtopicRequest
		if !decodeValid(w, r, &req) {
			return
		}
		st, err := cat.UpdateSubtopic(r.Context(), catalog.Subtopic{
			ID:          chi.URLParam(r, "id"),
			UnitID:      req.UnitID,
			Name:        req.Name,
			Description: req.Description,
			Content:     req.Content,
			Order:       req.Order,
		})
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subtopic not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not update subtopic")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func DeleteSubtopicHandler(cat *catalog.Store) http.HandlerFunc {
	return deleteHandler(func(r *http.Request) error {
		return cat.DeleteSubtopic(r.Context(), chi.URLParam(r, "id"))
	}, "subtopic not found")
}

func deleteHandler(del func(*http.Request) error, notFound string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := del(r)
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, notFound)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "delete failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
