package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/codefix-arena/backend/internal/auth"
	"github.com/codefix-arena/backend/internal/catalog"
	"github.com/codefix-arena/backend/internal/db"
	"github.com/codefix-arena/backend/internal/progress"
	"github.com/codefix-arena/backend/internal/rbac"
	"github.com/codefix-arena/backend/internal/user"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sdb, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = sdb.Close() })
	return sdb
}

func newTestAuth() *auth.Service {
	return auth.NewService("test-access", "test-refresh", time.Hour, 24*time.Hour)
}

type progressFixture struct {
	router       chi.Router
	studentToken string
	studentID    string
	adminToken   string
	adminID      string
	subjectID    string
	subtopicID   string
}

func newProgressFixture(t *testing.T) progressFixture {
	t.Helper()
	sdb := newTestDB(t)

	users := user.NewStore(sdb)
	cat := catalog.NewStore(sdb)
	prog := progress.NewStore(sdb)
	authSvc := newTestAuth()

	r := chi.NewRouter()
	r.Post("/auth/register", RegisterHandler(users, authSvc, bcrypt.MinCost))
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(sdb))
		pr.With(rbac.Require("progress:view")).Get("/progress/user/{userID}/stats", UserStatsHandler(prog))
		pr.With(rbac.Require("progress:view")).Get("/progress/user/{userID}/subject/{subjectID}", SubjectProgressHandler(prog))
		pr.With(rbac.Require("progress:save")).Post("/progress", SaveProgressHandler(prog, cat))
	})

	register := func(email, username string) (string, string) {
		rec := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]string{
			"email": email, "username": username, "password": "supersecret",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("register %s = %d: %s", username, rec.Code, rec.Body)
		}
		var reg tokenResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
			t.Fatalf("decode register: %v", err)
		}
		return reg.User.ID, reg.AccessToken
	}

	f := progressFixture{router: r}
	f.studentID, f.studentToken = register("alumno@test.dev", "alumno")
	f.adminID, f.adminToken = register("admin@test.dev", "admin")
	if _, err := sdb.Exec(`UPDATE users SET role = $1 WHERE id = $2`, rbac.RoleAdmin, f.adminID); err != nil {
		t.Fatalf("promote admin: %v", err)
	}

	ctx := context.Background()
	subj, err := cat.CreateSubject(ctx, catalog.Subject{Name: "Programación"})
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	un, err := cat.CreateUnit(ctx, catalog.Unit{SubjectID: subj.ID, Name: "Unidad 1", Order: 1})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	st, err := cat.CreateSubtopic(ctx, catalog.Subtopic{UnitID: un.ID, Name: "Bucles", Order: 1})
	if err != nil {
		t.Fatalf("create subtopic: %v", err)
	}
	f.subjectID = subj.ID
	f.subtopicID = st.ID
	return f
}

func TestUserStatsSelfAndAdmin(t *testing.T) {
	f := newProgressFixture(t)

	rec := doJSON(t, f.router, http.MethodPost, "/progress", f.studentToken, map[string]any{
		"subtopic_id": f.subtopicID, "score": 85.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save progress = %d: %s", rec.Code, rec.Body)
	}

	for _, path := range []string{
		"/progress/user/me/stats",
		"/progress/user/" + f.studentID + "/stats",
	} {
		rec = doJSON(t, f.router, http.MethodGet, path, f.studentToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d: %s", path, rec.Code, rec.Body)
		}
		var stats progress.UserStats
		if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if stats.CompletedSubtopics != 1 || stats.TotalSubtopics != 1 || stats.AverageScore != 85 {
			t.Fatalf("GET %s stats = %+v", path, stats)
		}
	}

	rec = doJSON(t, f.router, http.MethodGet, "/progress/user/"+f.studentID+"/stats", f.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin read = %d: %s", rec.Code, rec.Body)
	}
	var stats progress.UserStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode admin stats: %v", err)
	}
	if stats.CompletedSubtopics != 1 {
		t.Fatalf("admin stats = %+v", stats)
	}
}

func TestUserStatsStudentCannotReadOthers(t *testing.T) {
	f := newProgressFixture(t)

	rec := doJSON(t, f.router, http.MethodGet, "/progress/user/"+f.adminID+"/stats", f.studentToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-user read = %d, want 403: %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, f.router, http.MethodGet, "/progress/user/"+f.adminID+"/subject/"+f.subjectID, f.studentToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-user subject read = %d, want 403: %s", rec.Code, rec.Body)
	}
}

func TestSubjectProgressMeAlias(t *testing.T) {
	f := newProgressFixture(t)

	rec := doJSON(t, f.router, http.MethodPost, "/progress", f.studentToken, map[string]any{
		"subtopic_id": f.subtopicID, "score": 70.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save progress = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, f.router, http.MethodGet, "/progress/user/me/subject/"+f.subjectID, f.studentToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("subject progress = %d: %s", rec.Code, rec.Body)
	}
	var out []progress.SubtopicProgress
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode subject progress: %v", err)
	}
	if len(out) != 1 || !out[0].Completed || out[0].Score == nil || *out[0].Score != 70 {
		t.Fatalf("subject progress = %+v", out)
	}
}
