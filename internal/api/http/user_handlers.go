package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/codefix-arena/backend/internal/rbac"
	"github.com/codefix-arena/backend/internal/user"
)

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=STUDENT ADMIN"`
}

type updateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Role     string `json:"role" validate:"required,oneof=STUDENT ADMIN"`
}

func ListUsersHandler(users *user.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := users.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not list users")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func CreateUserHandler(users *user.Store, bcryptCost int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if !decodeValid(w, r, &req) {
			return
		}
		if req.Role == "" {
			req.Role = rbac.RoleStudent
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not hash password")
			return
		}
		u, err := users.Create(r.Context(), user.User{
			Email:        req.Email,
			Username:     req.Username,
			PasswordHash: string(hash),
			Role:         req.Role,
		})
		if errors.Is(err, user.ErrDuplicate) {
			writeError(w, http.StatusConflict, "email or username already registered")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create user")
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

func UpdateUserHandler(users *user.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateUserRequest
		if !decodeValid(w, r, &req) {
			return
		}
		u, err := users.Update(r.Context(), user.User{
			ID:       chi.URLParam(r, "id"),
			Email:    req.Email,
			Username: req.Username,
			Role:     req.Role,
		})
		switch {
		case errors.Is(err, user.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, user.ErrDuplicate):
			writeError(w, http.StatusConflict, "email or username already taken")
		case err != nil:
			writeError(w, http.StatusInternalServerError, "could not update user")
		default:
			writeJSON(w, http.StatusOK, u)
		}
	}
}

func DeleteUserHandler(users *user.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := users.Delete(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not delete user")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
