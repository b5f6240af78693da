package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codefix-arena/backend/internal/db"
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

// seedActivity inserts the user/catalog/activity rows a submission needs.
func seedActivity(t *testing.T, sdb *sql.DB, userID, activityID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().Unix()
	subjectID, unitID, subtopicID := uuid.NewString(), uuid.NewString(), uuid.NewString()

	stmts := []struct {
		q    string
		args []any
	}{
		{`INSERT INTO users (id,email,username,password_hash,role,created_at) VALUES ($1,$2,$3,'x','STUDENT',$4)`,
			[]any{userID, userID + "@test.dev", "user-" + userID, now}},
		{`INSERT INTO subjects (id,name,created_at) VALUES ($1,'Programación',$2)`,
			[]any{subjectID, now}},
		{`INSERT INTO units (id,subject_id,name,ord,created_at) VALUES ($1,$2,'Unidad 1',0,$3)`,
			[]any{unitID, subjectID, now}},
		{`INSERT INTO subtopics (id,unit_id,name,content,ord,created_at) VALUES ($1,$2,'Bucles','texto',0,$3)`,
			[]any{subtopicID, unitID, now}},
		{`INSERT INTO activities (id,subtopic_id,created_by,type,difficulty,title,content_json,ai_generated,created_at)
		  VALUES ($1,$2,$3,'QUIZ','EASY','Quiz de bucles','{}',0,$4)`,
			[]any{activityID, subtopicID, userID, now}},
	}
	for _, s := range stmts {
		if _, err := sdb.ExecContext(ctx, s.q, s.args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestStoreCreateAndFind(t *testing.T) {
	sdb := newTestDB(t)
	store := NewStore(sdb)
	seedActivity(t, sdb, "u1", "a1")

	score := 75.0
	created, err := store.Create(context.Background(), Submission{
		UserID:     "u1",
		ActivityID: "a1",
		Answers:    json.RawMessage(`[1,2]`),
		Score:      &score,
		Feedback:   "bien",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.Status != StatusCompleted || created.CompletedAt == 0 {
		t.Fatalf("created = %+v", created)
	}

	got, err := store.FindByUserActivity(context.Background(), "u1", "a1")
	if err != nil {
		t.Fatalf("FindByUserActivity: %v", err)
	}
	if got.ID != created.ID || got.Score == nil || *got.Score != 75.0 || got.Feedback != "bien" {
		t.Fatalf("got = %+v", got)
	}
	if string(got.Answers) != `[1,2]` {
		t.Fatalf("answers = %s", got.Answers)
	}
}

func TestStoreSecondInsertIsDuplicate(t *testing.T) {
	sdb := newTestDB(t)
	store := NewStore(sdb)
	seedActivity(t, sdb, "u1", "a1")

	score := 50.0
	sub := Submission{UserID: "u1", ActivityID: "a1", Answers: json.RawMessage(`[]`), Score: &score}
	if _, err := store.Create(context.Background(), sub); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := store.Create(context.Background(), sub); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second Create err = %v, want ErrDuplicate", err)
	}
}

func TestStoreFindMissing(t *testing.T) {
	store := NewStore(newTestDB(t))
	if _, err := store.FindByUserActivity(context.Background(), "nobody", "nothing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreListByUserJoinsPath(t *testing.T) {
	sdb := newTestDB(t)
	store := NewStore(sdb)
	seedActivity(t, sdb, "u1", "a1")

	score := 100.0
	if _, err := store.Create(context.Background(), Submission{
		UserID: "u1", ActivityID: "a1", Answers: json.RawMessage(`[0]`), Score: &score,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	history, err := store.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history = %d entries, want 1", len(history))
	}
	h := history[0]
	if h.Activity.Title != "Quiz de bucles" || h.Activity.Subject != "Programación" || h.Activity.Unit != "Unidad 1" || h.Activity.Subtopic != "Bucles" {
		t.Fatalf("activity context = %+v", h.Activity)
	}
}

func TestStoreListByActivityJoinsUser(t *testing.T) {
	sdb := newTestDB(t)
	store := NewStore(sdb)
	seedActivity(t, sdb, "u1", "a1")

	score := 25.0
	if _, err := store.Create(context.Background(), Submission{
		UserID: "u1", ActivityID: "a1", Answers: json.RawMessage(`[]`), Score: &score,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	subs, err := store.ListByActivity(context.Background(), "a1")
	if err != nil {
		t.Fatalf("ListByActivity: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("subs = %d entries, want 1", len(subs))
	}
	if subs[0].User.Username != "user-u1" || subs[0].User.Email != "u1@test.dev" {
		t.Fatalf("user = %+v", subs[0].User)
	}
}
