package http

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/codefix-arena/backend/internal/auth"
	"github.com/codefix-arena/backend/internal/rbac"
	"github.com/codefix-arena/backend/internal/user"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         user.User `json:"user"`
}

// RegisterHandler creates a STUDENT account and signs it in.
func RegisterHandler(users *user.Store, authSvc *auth.Service, bcryptCost int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeValid(w, r, &req) {
			return
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
			Role:         rbac.RoleStudent,
		})
		if errors.Is(err, user.ErrDuplicate) {
			writeError(w, http.StatusConflict, "email or username already registered")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create user")
			return
		}
		issueTokens(w, authSvc, u, http.StatusCreated)
	}
}

func LoginHandler(users *user.Store, authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeValid(w, r, &req) {
			return
		}
		u, err := users.GetByEmail(r.Context(), req.Email)
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		issueTokens(w, authSvc, u, http.StatusOK)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshHandler exchanges a valid refresh token for a fresh token pair.
func RefreshHandler(users *user.Store, authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeValid(w, r, &req) {
			return
		}
		claims, err := authSvc.ParseRefresh(req.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		u, err := users.GetByID(r.Context(), claims.Subject)
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "refresh failed")
			return
		}
		issueTokens(w, authSvc, u, http.StatusOK)
	}
}

// ProfileHandler returns the authenticated user.
func ProfileHandler(users *user.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.SubjectFromContext(r.Context())
		if uid == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		u, err := users.GetByID(r.Context(), uid)
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load profile")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func issueTokens(w http.ResponseWriter, authSvc *auth.Service, u user.User, status int) {
	access, err := authSvc.IssueAccess(u.ID, u.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	refresh, err := authSvc.IssueRefresh(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, status, tokenResponse{AccessToken: access, RefreshToken: refresh, User: u})
}
