package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/codefix-arena/backend/internal/activity"
	"github.com/codefix-arena/backend/internal/ai"
	api "github.com/codefix-arena/backend/internal/api/http"
	"github.com/codefix-arena/backend/internal/auth"
	"github.com/codefix-arena/backend/internal/catalog"
	"github.com/codefix-arena/backend/internal/config"
	"github.com/codefix-arena/backend/internal/db"
	"github.com/codefix-arena/backend/internal/grading"
	"github.com/codefix-arena/backend/internal/logger"
	"github.com/codefix-arena/backend/internal/progress"
	"github.com/codefix-arena/backend/internal/rbac"
	"github.com/codefix-arena/backend/internal/submission"
	"github.com/codefix-arena/backend/internal/user"
)

func main() {
	cfg := config.FromEnv()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		zlog.Fatal("db open failed", zap.Error(err))
	}

	// --- Stores and services ---
	users := user.NewStore(dbh)
	cat := catalog.NewStore(dbh)
	acts := activity.NewStore(dbh)
	subs := submission.NewStore(dbh)
	prog := progress.NewStore(dbh)

	authSvc := auth.NewService(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	aiClient := ai.New(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, zlog)
	openGrader := grading.NewOpenGrader(aiClient, cfg.AITimeout)
	submitSvc := submission.NewService(acts, subs, openGrader, zlog)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			w.WriteHeader(503)
			return
		}
		w.WriteHeader(200)
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Post("/auth/register", api.RegisterHandler(users, authSvc, cfg.BcryptCost))
		v1.Post("/auth/login", api.LoginHandler(users, authSvc))
		v1.Post("/auth/refresh", api.RefreshHandler(users, authSvc))

		v1.Group(func(pr chi.Router) {
			pr.Use(auth.Middleware(authSvc))
			pr.Use(auth.AttachRoleFromDB(dbh))

			pr.Get("/auth/profile", api.ProfileHandler(users))

			// Users (admin)
			pr.With(rbac.Require("user:manage")).Get("/users", api.ListUsersHandler(users))
			pr.With(rbac.Require("user:manage")).Post("/users", api.CreateUserHandler(users, cfg.BcryptCost))
			pr.With(rbac.Require("user:manage")).Put("/users/{id}", api.UpdateUserHandler(users))
			pr.With(rbac.Require("user:manage")).Delete("/users/{id}", api.DeleteUserHandler(users))

			// Catalog
			pr.With(rbac.Require("catalog:view")).Get("/subjects", api.ListSubjectsHandler(cat))
			pr.With(rbac.Require("catalog:view")).Get("/subjects/{id}", api.GetSubjectHandler(cat))
			pr.With(rbac.Require("catalog:manage")).Post("/subjects", api.CreateSubjectHandler(cat))
			pr.With(rbac.Require("catalog:manage")).Put("/subjects/{id}", api.UpdateSubjectHandler(cat))
			pr.With(rbac.Require("catalog:manage")).Delete("/subjects/{id}", api.DeleteSubjectHandler(cat))

			pr.With(rbac.Require("catalog:view")).Get("/units/{id}", api.GetUnitHandler(cat))
			pr.With(rbac.Require("catalog:manage")).Post("/units", api.CreateUnitHandler(cat))
			pr.With(rbac.Require("catalog:manage")).Put("/units/{id}", api.UpdateUnitHandler(cat))
			pr.With(rbac.Require("catalog:manage")).Delete("/units/{id}", api.DeleteUnitHandler(cat))

			pr.With(rbac.Require("catalog:view")).Get("/subtopics/{id}", api.GetSubtopicHandler(cat))
			pr.With(rbac.Require("catalog:manage")).Post("/subtopics", api.CreateSubtopicHandler(cat))
			pr.With(rbac.Require("catalog:manage")).Put("/subtopics/{id}", api.UpdateSubtopicHandler(cat))
			pr.With(rbac.Require("catalog:manage")).Delete("/subtopics/{id}", api.DeleteSubtopicHandler(cat))

			// Activities
			pr.With(rbac.Require("activity:create")).Post("/activities/quiz", api.CreateQuizHandler(acts, cat))
			pr.With(rbac.Require("activity:create")).Post("/activities", api.CreateActivityHandler(acts, cat))
			pr.With(rbac.Require("activity:create")).Post("/activities/ai-generate", api.GenerateActivityHandler(acts, cat, aiClient, zlog))
			pr.With(rbac.Require("activity:view")).Get("/subtopics/{id}/activities", api.ListActivitiesHandler(acts))
			pr.With(rbac.Require("activity:view")).Get("/activities/{id}", api.GetActivityHandler(acts))
			pr.With(rbac.Require("activity:delete")).Delete("/activities/{id}", api.DeleteActivityHandler(acts))

			// Submissions
			pr.With(rbac.Require("activity:submit")).Post("/activities/submit", api.SubmitHandler(submitSvc))
			pr.With(rbac.Require("submission:view-own")).Get("/activities/{id}/my-submission", api.MySubmissionHandler(subs))
			pr.With(rbac.Require("submission:view-own")).Get("/my-history", api.MyHistoryHandler(subs))
			pr.With(rbac.Require("submission:view-all")).Get("/activities/{id}/submissions", api.ListSubmissionsHandler(subs))

			// Progress
			pr.With(rbac.Require("progress:view")).Get("/progress/user/{userID}/stats", api.UserStatsHandler(prog))
			pr.With(rbac.Require("progress:view")).Get("/progress/user/{userID}/subject/{subjectID}", api.SubjectProgressHandler(prog))
			pr.With(rbac.Require("progress:save")).Post("/progress", api.SaveProgressHandler(prog, cat))
			pr.With(rbac.Require("progress:admin")).Get("/progress/admin/stats", api.AdminStatsHandler(prog))
		})
	})

	zlog.Info("gateway listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.Env))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
